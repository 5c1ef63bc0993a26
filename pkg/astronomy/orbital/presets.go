package orbital

import (
	"sort"
	"strings"

	"cosmossdk.io/errors"

	"github.com/oxygene76/kepler-orbit/internal/types"
)

// Approximate J2000 elements and rates for the major planets, valid
// 1800 AD - 2050 AD (Standish, JPL). Earth uses the Earth-Moon barycenter row
// with the ecliptic node from the equinox-of-date table.
var presets = map[string]OrbitalElements{
	"mercury": {
		A0: 0.38709927, Ac: 0.00000037,
		E0: 0.20563593, Ec: 0.00001906,
		I0: 7.00497902, Ic: -0.00594749,
		L0: 252.25032350, Lc: 149472.67411175,
		Lp0: 77.45779628, Lpc: 0.16047689,
		O0: 48.33076593, Oc: -0.12534081,
	},
	"venus": {
		A0: 0.72333566, Ac: 0.00000390,
		E0: 0.00677672, Ec: -0.00004107,
		I0: 3.39467605, Ic: -0.00078890,
		L0: 181.97909950, Lc: 58517.81538729,
		Lp0: 131.60246718, Lpc: 0.00268329,
		O0: 76.67984255, Oc: -0.27769418,
	},
	"earth": {
		A0: 1.00000261, Ac: 0.00000562,
		E0: 0.01671123, Ec: -0.00004392,
		I0: -0.00001531, Ic: -0.01294668,
		L0: 100.46457166, Lc: 35999.37244981,
		Lp0: 102.93768193, Lpc: 0.32327364,
		O0: -11.26064, Oc: 0,
	},
	"mars": {
		A0: 1.52371034, Ac: 0.00001847,
		E0: 0.09339410, Ec: 0.00007882,
		I0: 1.84969142, Ic: -0.00813131,
		L0: -4.55343205, Lc: 19140.30268499,
		Lp0: -23.94362959, Lpc: 0.44441088,
		O0: 49.55953891, Oc: -0.29257343,
	},
	"jupiter": {
		A0: 5.20288700, Ac: -0.00011607,
		E0: 0.04838624, Ec: -0.00013253,
		I0: 1.30439695, Ic: -0.00183714,
		L0: 34.39644051, Lc: 3034.74612775,
		Lp0: 14.72847983, Lpc: 0.21252668,
		O0: 100.47390909, Oc: 0.20469106,
	},
	"saturn": {
		A0: 9.53667594, Ac: -0.00125060,
		E0: 0.05386179, Ec: -0.00050991,
		I0: 2.48599187, Ic: 0.00193609,
		L0: 49.95424423, Lc: 1222.49362201,
		Lp0: 92.59887831, Lpc: -0.41897216,
		O0: 113.66242448, Oc: -0.28867794,
	},
	"uranus": {
		A0: 19.18916464, Ac: -0.00196176,
		E0: 0.04725744, Ec: -0.00004397,
		I0: 0.77263783, Ic: -0.00242939,
		L0: 313.23810451, Lc: 428.48202785,
		Lp0: 170.95427630, Lpc: 0.40805281,
		O0: 74.01692503, Oc: 0.04240589,
	},
	"neptune": {
		A0: 30.06992276, Ac: 0.00026291,
		E0: 0.00859048, Ec: 0.00005105,
		I0: 1.77004347, Ic: 0.00035372,
		L0: -55.12002969, Lc: 218.45945325,
		Lp0: 44.96476227, Lpc: -0.32241464,
		O0: 131.78422574, Oc: -0.00508664,
	},
}

// Preset returns the built-in elements for a planet name (case-insensitive)
func Preset(name string) (OrbitalElements, error) {
	oe, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return OrbitalElements{}, errors.Wrapf(types.ErrUnknownPreset, "%q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return oe, nil
}

// PresetNames lists the preset names ordered by semi-major axis
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return presets[names[i]].A0 < presets[names[j]].A0
	})
	return names
}
