package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cosmossdk.io/errors"
	"github.com/spf13/cobra"

	"github.com/oxygene76/kepler-orbit/internal/types"
	"github.com/oxygene76/kepler-orbit/pkg/analysis"
	astromath "github.com/oxygene76/kepler-orbit/pkg/astronomy/math"
	"github.com/oxygene76/kepler-orbit/pkg/astronomy/orbital"
	"github.com/oxygene76/kepler-orbit/pkg/utils"
)

// elementFlags lists the per-element override flags shared by state, run and sweep
var elementFlags = []struct {
	name  string
	usage string
	field func(*orbital.OrbitalElements) *float64
}{
	{"a0", "Semi-major axis at J2000 (AU)", func(oe *orbital.OrbitalElements) *float64 { return &oe.A0 }},
	{"ac", "Semi-major axis rate (AU/century)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Ac }},
	{"e0", "Eccentricity at J2000", func(oe *orbital.OrbitalElements) *float64 { return &oe.E0 }},
	{"ec", "Eccentricity rate (1/century)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Ec }},
	{"i0", "Inclination at J2000 (deg)", func(oe *orbital.OrbitalElements) *float64 { return &oe.I0 }},
	{"ic", "Inclination rate (deg/century)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Ic }},
	{"l0", "Mean longitude at J2000 (deg)", func(oe *orbital.OrbitalElements) *float64 { return &oe.L0 }},
	{"lc", "Mean longitude rate (deg/century)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Lc }},
	{"lp0", "Longitude of perihelion at J2000 (deg)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Lp0 }},
	{"lpc", "Longitude of perihelion rate (deg/century)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Lpc }},
	{"o0", "Longitude of ascending node at J2000 (deg)", func(oe *orbital.OrbitalElements) *float64 { return &oe.O0 }},
	{"oc", "Longitude of ascending node rate (deg/century)", func(oe *orbital.OrbitalElements) *float64 { return &oe.Oc }},
}

func addElementFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Built-in body (see presets)")
	cmd.Flags().String("elements-file", "", "CSV file with orbital elements")
	cmd.Flags().String("body", "", "Body to pick from --elements-file")
	for _, f := range elementFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}
}

// applyElementOverrides replaces every element whose flag was set explicitly
func applyElementOverrides(cmd *cobra.Command, oe orbital.OrbitalElements) (orbital.OrbitalElements, bool) {
	changed := false
	for _, f := range elementFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(f.name)
		if err != nil {
			continue
		}
		*f.field(&oe) = v
		changed = true
	}
	return oe, changed
}

// resolveBodies returns the bodies selected by the config: explicit values
// first, then an element file (one body or all of them), then a preset.
func resolveBodies(cfg *utils.Config, manager *analysis.Manager) ([]analysis.NamedElements, error) {
	el := cfg.Elements
	switch {
	case el.Custom != nil:
		return []analysis.NamedElements{{Name: "custom", Elements: *el.Custom}}, nil

	case el.File != "":
		bodies, err := manager.LoadElements(el.File)
		if err != nil {
			return nil, err
		}
		if el.Body == "" {
			return bodies, nil
		}
		for _, b := range bodies {
			if strings.EqualFold(b.Name, el.Body) {
				return []analysis.NamedElements{b}, nil
			}
		}
		return nil, errors.Wrapf(types.ErrUnknownPreset, "body %q not found in %s", el.Body, el.File)

	default:
		oe, err := orbital.Preset(el.Preset)
		if err != nil {
			return nil, err
		}
		return []analysis.NamedElements{{Name: strings.ToLower(el.Preset), Elements: oe}}, nil
	}
}

// resolveElements picks a single body and applies flag overrides on top of it
func resolveElements(cmd *cobra.Command, cfg *utils.Config, manager *analysis.Manager) (analysis.NamedElements, error) {
	bodies, err := resolveBodies(cfg, manager)
	if err != nil {
		return analysis.NamedElements{}, err
	}
	return pickBody(cmd, cfg, bodies)
}

func pickBody(cmd *cobra.Command, cfg *utils.Config, bodies []analysis.NamedElements) (analysis.NamedElements, error) {
	if len(bodies) != 1 {
		return analysis.NamedElements{}, errors.Wrapf(types.ErrInvalidConfig,
			"%s holds %d bodies, pick one with --body", cfg.Elements.File, len(bodies))
	}

	body := bodies[0]
	if oe, changed := applyElementOverrides(cmd, body.Elements); changed {
		body.Elements = oe
		body.Name += " (modified)"
	}
	if err := body.Elements.Validate(); err != nil {
		return analysis.NamedElements{}, err
	}
	return body, nil
}

func printPresets(w io.Writer) {
	fmt.Fprintf(w, "%-10s %12s %10s %10s %12s %14s\n", "Body", "a0 (AU)", "e0", "i0 (°)", "L0 (°)", "Lc (°/cy)")
	fmt.Fprintln(w, strings.Repeat("-", 73))
	for _, name := range orbital.PresetNames() {
		oe, _ := orbital.Preset(name)
		fmt.Fprintf(w, "%-10s %12.8f %10.8f %10.5f %12.5f %14.5f\n", name, oe.A0, oe.E0, oe.I0, oe.L0, oe.Lc)
	}
}

// convertAngle converts value into unit ("rad" or "deg")
func convertAngle(value, unit string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", fmt.Errorf("invalid angle %q: %w", value, err)
	}
	switch unit {
	case "rad", "radians":
		return fmt.Sprintf("%g° = %.10g rad", v, astromath.DegToRad(v)), nil
	case "deg", "degrees":
		return fmt.Sprintf("%g rad = %.10g°", v, astromath.RadToDeg(v)), nil
	default:
		return "", fmt.Errorf("unknown unit %q (use rad or deg)", unit)
	}
}
