package dto

import (
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	WorkerID    uint      `json:"worker_id"`
	ClientID    uint      `json:"client_id"`
	ClientName  string    `json:"client_name,omitempty"`
	ServiceName string    `json:"service_name"`
	DurationMin int       `json:"duration_min"`
	Price       float64   `json:"price"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

func AppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			WorkerID:    ap.WorkerID,
			ClientID:    ap.ClientID,
			ClientName:  ap.Client.Name,
			ServiceName: ap.Service.Name,
			DurationMin: ap.Service.DurationMin,
			Price:       ap.Service.Price,
			StartAt:     ap.StartAt.UTC(),
			EndAt:       ap.EndAt.UTC(),
			Status:      ap.Status,
			Notes:       ap.Notes,
		})
	}
	return out
}
