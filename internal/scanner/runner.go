package scanner

import (
	"context"
	"errors"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Binder registers callbacks for hotkey specifications
type Binder interface {
	Bind(spec string, fn func()) error
	Unbind(spec string) error
	Close()
}

// Runner drives a Scanner from global hotkeys: one key starts a continuous
// scan, another reloads the region from the settings file
type Runner struct {
	scanner      *Scanner
	binder       Binder
	settingsPath string
	report       func(string)
	logger       *logging.Logger
}

// NewRunner creates a runner. report receives recognized text and error
// messages and may be nil.
func NewRunner(s *Scanner, binder Binder, settingsPath string, report func(string)) *Runner {
	if report == nil {
		report = func(string) {}
	}
	return &Runner{
		scanner:      s,
		binder:       binder,
		settingsPath: settingsPath,
		report:       report,
		logger:       logging.New("scanner-runner"),
	}
}

// ReloadROI reads the region and debug image flag from the settings file
func (r *Runner) ReloadROI() error {
	st, err := settings.Load(r.settingsPath)
	if err != nil {
		return err
	}
	r.scanner.SetSaveDebugImages(st.SaveDebugImages)
	if st.ROI.Empty() {
		return noROIError()
	}
	r.scanner.SetROI(st.ROI)
	return nil
}

// ContinuousScan runs one continuous scan and reports the outcome
func (r *Runner) ContinuousScan(ctx context.Context) {
	found, err := r.scanner.Continuous(ctx)
	if err != nil {
		var scanErr *Error
		if errors.As(err, &scanErr) {
			r.report(scanErr.Text)
		}
		r.logger.Warn("Continuous scan failed", "error", err)
		return
	}
	r.report(found)
}

// Run binds the hotkeys and blocks until ctx is done
func (r *Runner) Run(ctx context.Context, st settings.Settings) error {
	if r.binder == nil {
		return errors.New("no hotkey binder")
	}
	defer r.binder.Close()

	if err := r.binder.Bind(st.HotkeyContinuousScan, func() {
		go r.ContinuousScan(ctx)
	}); err != nil {
		return err
	}
	if err := r.binder.Bind(st.HotkeyResetCrop, func() {
		if err := r.ReloadROI(); err != nil {
			r.logger.Warn("Failed to reload region", "error", err)
			return
		}
		r.report("ROI: " + r.scanner.ROI().String())
	}); err != nil {
		return err
	}

	r.logger.Info("Scanner hotkeys active",
		"continuous_scan", st.HotkeyContinuousScan,
		"reload_roi", st.HotkeyResetCrop)

	<-ctx.Done()
	return nil
}
