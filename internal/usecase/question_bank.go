package usecase

import "care-recruitment-backend/internal/domain"

// CaregiverQuestions returns a fresh copy of the caregiver assessment.
func CaregiverQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       "q1",
			Question: "What is the most important thing to consider when assisting an elderly person with mobility issues?",
			Options: []string{
				"Speed of movement",
				"Patient safety and comfort",
				"Time efficiency",
				"Personal convenience",
			},
			CorrectAnswer: 1,
		},
		{
			ID:       "q2",
			Question: "When should you wash your hands in a care setting?",
			Options: []string{
				"Only when they look dirty",
				"Before and after each patient contact",
				"Once at the start of your shift",
				"When reminded by supervisors",
			},
			CorrectAnswer: 1,
		},
		{
			ID:       "q3",
			Question: "How should you respond if a patient falls?",
			Options: []string{
				"Help them up immediately",
				"Call for help and assess for injuries before moving them",
				"Leave them on the floor until a nurse arrives",
				"Take a photo for incident reporting",
			},
			CorrectAnswer: 1,
		},
		{
			ID:       "q4",
			Question: "What is the correct procedure for disposing of medical waste?",
			Options: []string{
				"Put it in regular trash bins",
				"Use designated medical waste containers",
				"Take it home for disposal",
				"Burn it in the facility",
			},
			CorrectAnswer: 1,
		},
		{
			ID:       "q5",
			Question: "When a patient refuses medication, you should:",
			Options: []string{
				"Force them to take it",
				"Hide it in their food",
				"Report to the nurse and document the refusal",
				"Skip it and not tell anyone",
			},
			CorrectAnswer: 2,
		},
	}
}

// questionsForRole returns the test for a role, or false when the role has none.
// Only the exact lowercase "caregiver" role is tested.
func questionsForRole(role string) ([]domain.Question, bool) {
	if role == domain.RoleCaregiver {
		return CaregiverQuestions(), true
	}
	return nil, false
}
