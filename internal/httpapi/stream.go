package httpapi

import (
	"log/slog"
	"time"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// handleStream upgrades to a websocket and pushes a reading on connect and on
// every change. In request-ticking mode the stream itself polls the engine
// once per interval so connected clients keep the clock moving.
func (s *Server) handleStream(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return nil
	}
	defer conn.Close()

	if s.recorder != nil {
		s.recorder.StreamClientConnected()
		defer s.recorder.StreamClientDisconnected()
	}

	updates, cancel := s.hub.Subscribe()
	defer cancel()

	// Drain client frames so close messages are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	var (
		poll       <-chan time.Time
		pollTicker ports.Ticker
		interval   time.Duration
	)
	if s.lazyTick {
		interval = s.shared.Interval()
		pollTicker = s.clock.NewTicker(interval)
		defer pollTicker.Stop()
		poll = pollTicker.C()
	}

	if err := s.writeReading(conn, s.shared.Snapshot()); err != nil {
		return nil
	}

	for {
		select {
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return nil
		case <-closed:
			return nil
		case <-poll:
			// Publishes through the hub when a tick happens.
			s.shared.TickIfDue()
			// Follow interval changes made by a config reload.
			if d := s.shared.Interval(); d != interval {
				interval = d
				pollTicker.Reset(d)
			}
		case t, ok := <-updates:
			if !ok {
				return nil
			}
			if err := s.writeReading(conn, t); err != nil {
				s.logger.Debug("stream write failed", slog.String("error", err.Error()))
				return nil
			}
		}
	}
}

func (s *Server) writeReading(conn *websocket.Conn, t clock.Time) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(newTimeResponse(t))
}
