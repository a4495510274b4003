package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-service/internal/adapter/gin/middleware"
	"clinic-service/internal/usecase/clinic"
	pkgerrors "clinic-service/pkg/errors"
)

// ClinicHandler handles dashboards, symptoms, appointments and recommendations.
type ClinicHandler struct {
	uc       clinic.Usecase
	renderer Renderer
	log      *zap.Logger
}

// NewClinicHandler creates a new ClinicHandler instance
func NewClinicHandler(uc clinic.Usecase, renderer Renderer, log *zap.Logger) *ClinicHandler {
	return &ClinicHandler{
		uc:       uc,
		renderer: renderer,
		log:      log,
	}
}

// Dashboard handles GET /dashboard
func (h *ClinicHandler) Dashboard(c *gin.Context) {
	who := middleware.CurrentIdentity(c)

	d, err := h.uc.Dashboard(c.Request.Context(), who)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	name := "dashboard_patient.html"
	if who.IsDoctor() {
		name = "dashboard_doctor.html"
	}
	render(c, h.renderer, h.log, name, page(c, "Dashboard", gin.H{"Dashboard": d}))
}

// SymptomForm handles GET /symptom_upload
func (h *ClinicHandler) SymptomForm(c *gin.Context) {
	render(c, h.renderer, h.log, "symptom_upload.html", page(c, "Report Symptoms", nil))
}

// SubmitSymptom handles POST /symptom_upload
func (h *ClinicHandler) SubmitSymptom(c *gin.Context) {
	var req clinic.SubmitSymptomRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, h.log, pkgerrors.NewValidationError("", err.Error()))
		return
	}

	if _, err := h.uc.SubmitSymptom(c.Request.Context(), middleware.CurrentIdentity(c), req); err != nil {
		handleError(c, h.log, err)
		return
	}

	seeOther(c, "/dashboard")
}

// BookingForm handles GET /book_appointment
func (h *ClinicHandler) BookingForm(c *gin.Context) {
	doctors, err := h.uc.ListDoctors(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	render(c, h.renderer, h.log, "book_appointment.html", page(c, "Book Appointment", gin.H{"Doctors": doctors}))
}

// BookAppointment handles POST /book_appointment
func (h *ClinicHandler) BookAppointment(c *gin.Context) {
	var req clinic.BookAppointmentRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, h.log, pkgerrors.NewValidationError("", err.Error()))
		return
	}

	if _, err := h.uc.BookAppointment(c.Request.Context(), middleware.CurrentIdentity(c), req); err != nil {
		handleError(c, h.log, err)
		return
	}

	seeOther(c, "/dashboard")
}

// RecommendationForm handles GET /recommendation?symptom_id=<id>
func (h *ClinicHandler) RecommendationForm(c *gin.Context) {
	render(c, h.renderer, h.log, "recommendation.html", page(c, "Add Recommendation", gin.H{
		"SymptomID": c.Query("symptom_id"),
	}))
}

// AddRecommendation handles POST /recommendation
func (h *ClinicHandler) AddRecommendation(c *gin.Context) {
	var req clinic.AddRecommendationRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, h.log, pkgerrors.NewValidationError("", err.Error()))
		return
	}

	if _, err := h.uc.AddRecommendation(c.Request.Context(), middleware.CurrentIdentity(c), req); err != nil {
		handleError(c, h.log, err)
		return
	}

	seeOther(c, "/dashboard")
}
