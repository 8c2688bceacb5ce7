package config

import (
	"fmt"
	"math"
	"time"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/host"
	"github.com/tempohold/tempohold-go/pkg/mapping"
)

// BuildBoard declares every configured device on a new board.
func BuildBoard(f *File, cfg host.Config) (*host.Board, error) {
	b := host.NewBoard(cfg)
	for _, d := range f.Devices.Physical {
		if err := b.AddDevice(button.SourcePhysical, d.ID, d.Buttons); err != nil {
			return nil, &LoadError{Message: "physical device " + d.ID, Cause: err}
		}
	}
	for _, d := range f.Devices.Virtual {
		if err := b.AddDevice(button.SourceVirtual, d.ID, d.Buttons); err != nil {
			return nil, &LoadError{Message: "virtual device " + d.ID, Cause: err}
		}
	}
	return b, nil
}

// Resolve turns the configured mappings into specs, checking every button
// against the board. It never fails: defects are returned as diagnostics
// and the affected mapping or feature is degraded.
func Resolve(f *File, board *host.Board) ([]mapping.Spec, []Diagnostic) {
	r := &resolver{board: board}
	specs := make([]mapping.Spec, 0, len(f.Mappings))
	for _, mc := range f.Mappings {
		specs = append(specs, r.mapping(mc, f.Debug))
	}
	return specs, r.diags
}

type resolver struct {
	board *host.Board
	diags []Diagnostic
	id    string
}

func (r *resolver) warn(field, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Severity: SeverityWarning,
		Mapping:  r.id,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *resolver) fail(field, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Severity: SeverityError,
		Mapping:  r.id,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *resolver) mapping(mc MappingConfig, debug bool) mapping.Spec {
	r.id = mc.ID

	spec := mapping.Spec{
		ID:          mc.ID,
		Description: mc.Description,
		Mode:        mc.Mode,
		Hold: hold.Config{
			Alternating: mc.Alternating,
			Debug:       debug || mc.Debug,
		},
	}

	if in, err := r.button(button.SourcePhysical, mc.Input); err != nil {
		r.fail("input", "%v; mapping disabled", err)
		spec.Disabled = mapping.ReasonInputUnresolved
	} else {
		spec.Input = in
	}

	if out, err := r.button(button.SourceVirtual, mc.Output); err != nil {
		r.fail("output", "%v; mapping disabled", err)
		if spec.Disabled == "" {
			spec.Disabled = "output unresolved"
		}
	} else {
		spec.Output = out
	}

	if mc.Cancel.Enabled {
		if c, err := r.button(button.SourcePhysical, mc.Cancel.Button); err != nil {
			r.warn("cancel.button", "%v; cancel disabled", err)
		} else {
			spec.Cancel = &c
		}
	}

	spec.Hold.Profile1 = r.profile("hold1", mc.Hold1)
	spec.Hold.Profile2 = r.profile("hold2", mc.Hold2)

	p1, p2 := spec.Hold.Profile1, spec.Hold.Profile2
	if p1.Enabled && p2.Enabled && p1.TempoDelay > p2.TempoDelay {
		r.warn("hold1.tempo_delay", "profile 1 tempo %v exceeds profile 2 tempo %v; profile 1 is unreachable", p1.TempoDelay, p2.TempoDelay)
	}

	return spec
}

func (r *resolver) button(source button.Source, s string) (button.Ref, error) {
	if s == "" {
		return button.Ref{}, fmt.Errorf("%s button not set", source)
	}
	ref, err := button.ParseRef(s)
	if err != nil {
		return button.Ref{}, err
	}
	if err := r.board.Resolve(source, ref); err != nil {
		return button.Ref{}, err
	}
	return ref, nil
}

func (r *resolver) profile(field string, pc *ProfileConfig) hold.Profile {
	if pc == nil || !pc.Enabled {
		return hold.Profile{}
	}

	tempo := r.number(field+".tempo_delay", pc.TempoDelay, DefaultTempoDelay, MaxTempoDelay)
	base := r.number(field+".hold_time", pc.HoldTime, DefaultHoldTime, MaxHoldTime)
	mult := r.number(field+".hold_time_multiplier", pc.HoldTimeMultiplier, DefaultMultiplier, MaxMultiplier)

	p := hold.Profile{
		Enabled:     true,
		Description: pc.Description,
		TempoDelay:  Seconds(tempo),
		Hold:        Seconds(base * mult),
	}

	if pc.Modifier.Enabled {
		g, err := r.guard(pc.Modifier)
		if err != nil {
			r.warn(field+".modifier", "%v; profile not gated", err)
		} else {
			p.Guard = &g
		}
	}
	return p
}

func (r *resolver) guard(mc ModifierConfig) (button.GuardRef, error) {
	source, err := button.ParseSource(mc.Source)
	if err != nil {
		return button.GuardRef{}, err
	}
	ref, err := r.button(source, mc.Button)
	if err != nil {
		return button.GuardRef{}, err
	}
	return button.GuardRef{Source: source, Button: ref}, nil
}

// number returns *v clamped into [0, max], or def when unset.
func (r *resolver) number(field string, v *float64, def, limit float64) float64 {
	if v == nil {
		return def
	}
	switch {
	case math.IsNaN(*v):
		r.warn(field, "not a number; using default %g", def)
		return def
	case *v < 0:
		r.warn(field, "%g below 0; clamped", *v)
		return 0
	case *v > limit:
		r.warn(field, "%g above %g; clamped", *v, limit)
		return limit
	}
	return *v
}

// Seconds converts seconds to a Duration, saturating at the largest
// Duration.
func Seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	ns := math.Round(s * float64(time.Second))
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}
