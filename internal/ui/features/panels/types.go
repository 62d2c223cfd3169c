// Package panels provides the prediction panel view and its actions.
package panels

import "github.com/leapstack-labs/watermgmt/internal/panel"

// Signal paths bound by the panel form.
const (
	signalRoot  = "panel"
	modelSignal = signalRoot + ".model"
)

func formSignal(key string) string {
	return signalRoot + ".form." + key
}

// Signals is the datastar signal payload posted by panel actions.
type Signals struct {
	Panel struct {
		Form  map[string]any `json:"form"`
		Model *string        `json:"model"`
	} `json:"panel"`
}

// SignalsFor returns the signals mirroring v's form, keyed like Signals.
func SignalsFor(v panel.View) map[string]any {
	form := make(map[string]any, len(v.Fields))
	for _, f := range v.Fields {
		val := v.Form[f.Name]
		if val == nil {
			val = ""
		}
		form[f.Key()] = val
	}
	state := map[string]any{"form": form}
	if v.Spec.HasModels() {
		state["model"] = v.Model
	}
	return map[string]any{signalRoot: state}
}

// ClearSignals removes the previous panel's signals.
func ClearSignals() map[string]any {
	return map[string]any{signalRoot: nil}
}
