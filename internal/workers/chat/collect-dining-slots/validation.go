// internal/workers/chat/collect-dining-slots/validation.go
package collectdiningslots

import (
	"regexp"
	"strings"

	"github.com/sankirthk/Dining-Concierge/internal/models"
)

// cuisinePromptOrder fixes the order cuisines appear in the elicitation
// prompt.
var cuisinePromptOrder = []string{"chinese", "japanese", "italian", "mexican", "american"}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	clockTime  = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// elicitation asks the user for one more slot.
type elicitation struct {
	Slot   string
	Prompt string
}

// validateDiningSlots checks the slots in a fixed order and returns either a
// complete request or the next slot to elicit.
func validateDiningSlots(intent Intent) (*models.RecommendationRequest, *elicitation) {
	location := strings.TrimSpace(intent.slotValue(SlotLocation))
	cuisine := strings.ToLower(strings.TrimSpace(intent.slotValue(SlotCuisine)))
	diningTime := strings.TrimSpace(intent.slotValue(SlotDiningTime))
	numPeople := strings.TrimSpace(intent.slotValue(SlotNumPeople))
	email := strings.TrimSpace(intent.slotValue(SlotEmail))

	if location == "" {
		return nil, &elicitation{
			Slot:   SlotLocation,
			Prompt: "What city or area are you looking to dine in?",
		}
	}
	if !models.Cuisines[cuisine] {
		return nil, &elicitation{
			Slot:   SlotCuisine,
			Prompt: "Which cuisine? Try " + strings.Join(cuisinePromptOrder, ", "),
		}
	}
	if numPeople == "" || !digitsOnly.MatchString(numPeople) {
		return nil, &elicitation{
			Slot:   SlotNumPeople,
			Prompt: "How many people are in your party?",
		}
	}
	if !clockTime.MatchString(diningTime) {
		return nil, &elicitation{
			Slot:   SlotDiningTime,
			Prompt: "What time? (HH:MM)",
		}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &elicitation{
			Slot:   SlotEmail,
			Prompt: "What email should I send results to?",
		}
	}

	return &models.RecommendationRequest{
		Location:   location,
		Cuisine:    cuisine,
		DiningTime: diningTime,
		NumPeople:  numPeople,
		Email:      email,
	}, nil
}
