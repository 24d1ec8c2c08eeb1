package schedule

import (
	"fmt"

	"github.com/greensys-tech/invernadero/internal/model"
)

type Kind string

const (
	KindIrrigation Kind = "irrigation"
	KindLighting   Kind = "lighting"
)

// KindConfig captures the behavioral differences between the two schedule
// kinds. The cascade and polling asymmetries are intentional configuration,
// not shared defaults, so each kind keeps the behavior it shipped with.
type KindConfig struct {
	RequiresMode           bool
	CascadeHistoryOnDelete bool
	PollRequiresActive     bool
	StartedCategory        string
	EndedCategory          string
	StartedTitle           string
	EndedTitle             string
	StartedMessage         string // fmt string taking the zone id
	EndedMessage           string // fmt string taking the zone id
}

var kindConfigs = map[Kind]KindConfig{
	KindIrrigation: {
		RequiresMode:           true,
		CascadeHistoryOnDelete: true,
		PollRequiresActive:     false,
		StartedCategory:        model.CategoryIrrigationStarted,
		EndedCategory:          model.CategoryIrrigationEnded,
		StartedTitle:           "Riego iniciado",
		EndedTitle:             "Riego finalizado",
		StartedMessage:         "Riego activado manualmente en la zona %d",
		EndedMessage:           "Riego desactivado en la zona %d",
	},
	KindLighting: {
		RequiresMode:           false,
		CascadeHistoryOnDelete: false,
		PollRequiresActive:     true,
		StartedCategory:        model.CategoryLightingStarted,
		EndedCategory:          model.CategoryLightingEnded,
		StartedTitle:           "Iluminación iniciada",
		EndedTitle:             "Iluminación finalizada",
		StartedMessage:         "Iluminación activada manualmente en la zona %d",
		EndedMessage:           "Iluminación desactivada en la zona %d",
	},
}

// ParseKind maps a URL path segment to a schedule kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindConfigs[k]; !ok {
		return "", fmt.Errorf("unknown schedule kind %q", s)
	}
	return k, nil
}

func (k Kind) Config() KindConfig {
	return kindConfigs[k]
}
