// Package rig drives the capture sequence on the masticator test rig and
// feeds captured or saved frames to the analysis pipelines.
package rig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mastication-analyzer/internal/comminution"
	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/logger"
	"mastication-analyzer/internal/mixing"

	"gocv.io/x/gocv"
)

// Station is a stage position with the LEDs lighting it.
type Station struct {
	Name          string
	MotorPosition int
	LEDs          device.LEDPattern
}

// Sequencer moves the stage, switches the illumination and captures frames.
// Commands are sent one at a time and each waits for its acknowledgment.
type Sequencer struct {
	Channel     device.CommandChannel
	Source      device.FrameSource
	Logger      logger.Logger
	SettleDelay time.Duration

	// SnapshotDir receives <station>_capture.png when set.
	SnapshotDir string
}

func (s *Sequencer) log() logger.Logger {
	if s.Logger == nil {
		return logger.Nop()
	}
	return s.Logger
}

// Acquire runs motor, settle, LEDs on, settle, capture, LEDs off, settle.
// The LED command toggles, so the same pattern switches the LEDs back off;
// this happens even when the capture fails or ctx is cancelled.
func (s *Sequencer) Acquire(ctx context.Context, st Station) (gocv.Mat, error) {
	log := s.log().With(map[string]interface{}{"station": st.Name})
	log.Info("Sequencer", "acquisition started", map[string]interface{}{
		"position": st.MotorPosition,
		"leds":     st.LEDs.Active(),
	})

	if err := s.send(ctx, device.MotorCommand(st.MotorPosition)); err != nil {
		return gocv.NewMat(), fmt.Errorf("move stage to %d: %w", st.MotorPosition, err)
	}
	if err := s.settle(ctx); err != nil {
		return gocv.NewMat(), err
	}

	lit := st.LEDs.Active() > 0
	if lit {
		if err := s.send(ctx, st.LEDs.String()); err != nil {
			return gocv.NewMat(), fmt.Errorf("switch LEDs on: %w", err)
		}
	}

	frame, err := s.captureLit(ctx, st)

	if lit {
		// ctx may already be cancelled; the board must not stay lit
		if offErr := s.send(context.WithoutCancel(ctx), st.LEDs.String()); offErr != nil {
			err = errors.Join(err, fmt.Errorf("switch LEDs off: %w", offErr))
		}
	}
	if err == nil {
		err = s.settle(ctx)
	}
	if err != nil {
		frame.Close()
		log.Error("Sequencer", err, map[string]interface{}{logger.MessageKey: "acquisition failed"})
		return gocv.NewMat(), err
	}

	log.Info("Sequencer", "acquisition completed", map[string]interface{}{
		"width":  frame.Cols(),
		"height": frame.Rows(),
	})
	return frame, nil
}

// AdjustBrightness moves one illumination region by delta levels. Each level
// is a separate toggle followed by the settle delay.
func (s *Sequencer) AdjustBrightness(ctx context.Context, region, delta int) error {
	steps, err := device.BrightnessStep(region, delta)
	if err != nil {
		return err
	}

	for i, p := range steps {
		if err := s.send(ctx, p.String()); err != nil {
			return fmt.Errorf("brightness step %d/%d of region %d: %w", i+1, len(steps), region, err)
		}
		if err := s.settle(ctx); err != nil {
			return err
		}
	}

	s.log().Info("Sequencer", "brightness adjusted", map[string]interface{}{
		"region": region,
		"delta":  delta,
	})
	return nil
}

func (s *Sequencer) captureLit(ctx context.Context, st Station) (gocv.Mat, error) {
	if err := s.settle(ctx); err != nil {
		return gocv.NewMat(), err
	}

	frame, err := s.Source.Capture(ctx)
	if err != nil {
		frame.Close()
		return gocv.NewMat(), fmt.Errorf("capture %s: %w", st.Name, err)
	}

	if s.SnapshotDir != "" {
		s.snapshot(frame, st.Name)
	}
	return frame, nil
}

// snapshot failures are logged; the frame is still analyzed.
func (s *Sequencer) snapshot(frame gocv.Mat, name string) {
	path := filepath.Join(s.SnapshotDir, name+"_capture.png")
	err := os.MkdirAll(s.SnapshotDir, 0o750)
	if err == nil {
		err = device.SaveFrame(path, frame)
	}
	if err != nil {
		s.log().Warning("Sequencer", "snapshot not saved", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return
	}
	s.log().Debug("Sequencer", "snapshot saved", map[string]interface{}{"path": path})
}

func (s *Sequencer) send(ctx context.Context, cmd string) error {
	s.log().Debug("Sequencer", "command", map[string]interface{}{"command": cmd})
	return s.Channel.Send(ctx, cmd)
}

func (s *Sequencer) settle(ctx context.Context) error {
	return Sleep(ctx, s.SettleDelay)
}

// RunComminution acquires a frame at st and analyzes it.
func (s *Sequencer) RunComminution(ctx context.Context, st Station, cfg comminution.Config) (*comminution.Result, error) {
	frame, err := s.Acquire(ctx, st)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	return comminution.Analyze(frame, cfg)
}

// RunMixing acquires a frame at st and analyzes it.
func (s *Sequencer) RunMixing(ctx context.Context, st Station, cfg mixing.Config) (*mixing.Result, error) {
	frame, err := s.Acquire(ctx, st)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	return mixing.Analyze(frame, cfg)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
