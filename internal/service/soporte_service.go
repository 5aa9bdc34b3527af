package service

import (
	"context"
	"fmt"

	"tippool/internal/dto"
	"tippool/internal/worker"

	"github.com/rs/zerolog/log"
)

type SoporteService interface {
	// Reportar forwards a problem report to the support inbox. Delivery is
	// asynchronous and best-effort; the request never waits on SMTP.
	Reportar(ctx context.Context, remitente string, req dto.ReporteProblemaRequest) error
}

type soporteService struct {
	dispatcher *worker.Dispatcher
	destino    string
}

func NewSoporteService(dispatcher *worker.Dispatcher, destino string) SoporteService {
	return &soporteService{dispatcher: dispatcher, destino: destino}
}

func (s *soporteService) Reportar(ctx context.Context, remitente string, req dto.ReporteProblemaRequest) error {
	body := fmt.Sprintf(
		"Reporte de problema\n\nDe: %s\nTipo: %s\nDispositivo: %s\nVersión: %s\n\n%s\n",
		remitente, req.Tipo, req.Dispositivo, req.Version, req.Descripcion,
	)
	payload := worker.EmailJobPayload{
		ToEmail: s.destino,
		Subject: fmt.Sprintf("[Soporte] %s", req.Tipo),
		Body:    body,
	}

	if s.dispatcher == nil {
		log.Info().Str("tipo", req.Tipo).Msg("reporte de soporte recibido (sin dispatcher)")
		return nil
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		// Best-effort: the report is logged even when the queue is down.
		log.Error().Err(err).Str("tipo", req.Tipo).Msg("no se pudo encolar el reporte de soporte")
	}
	return nil
}
