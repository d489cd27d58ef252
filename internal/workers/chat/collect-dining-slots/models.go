// internal/workers/chat/collect-dining-slots/models.go
package collectdiningslots

// Intent names the dialog understands.
const (
	IntentGreeting          = "GreetingIntent"
	IntentThankYou          = "ThankYouIntent"
	IntentDiningSuggestions = "DiningSuggestionsIntent"
)

// Dialog action types on the wire.
const (
	ActionClose      = "Close"
	ActionElicitSlot = "ElicitSlot"
)

// Slot names of the dining intent.
const (
	SlotLocation   = "Location"
	SlotCuisine    = "Cuisine"
	SlotDiningTime = "DiningTime"
	SlotNumPeople  = "NumPeople"
	SlotEmail      = "Email"
)

// SlotValue mirrors the interpreter's nested slot shape.
type SlotValue struct {
	Value struct {
		InterpretedValue string `json:"interpretedValue"`
	} `json:"value"`
}

// Intent is the recognized intent with its collected slots.
type Intent struct {
	Name  string                `json:"name"`
	Slots map[string]*SlotValue `json:"slots"`
	State string                `json:"state,omitempty"`
}

// Input is the dialog turn handed to the worker.
type Input struct {
	SessionID string `json:"sessionId,omitempty"`
	Intent    Intent `json:"intent"`
}

// DialogAction tells the interpreter what to do next.
type DialogAction struct {
	Type        string `json:"type"`
	SlotToElict string `json:"slotToElicit,omitempty"`
}

// Output is the dialog directive plus the user-facing message. Fulfilled is
// true once the request was published for processing.
type Output struct {
	DialogAction DialogAction `json:"dialogAction"`
	Intent       Intent       `json:"intent"`
	Message      string       `json:"message"`
	Fulfilled    bool         `json:"fulfilled"`
}

func (i Intent) slotValue(name string) string {
	sv, ok := i.Slots[name]
	if !ok || sv == nil {
		return ""
	}
	return sv.Value.InterpretedValue
}
