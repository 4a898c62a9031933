package recipe

import (
	"fmt"
	"strings"

	"github.com/nonnoweb/nonnoweb/internal/model"
)

const noIntolerances = "Nessuna"

// BuildPrompt renders the cook persona prompt for req.
func BuildPrompt(req model.RecipeRequest) string {
	courseInstruction := "un piatto che stia bene con gli ingredienti"
	if req.CourseType != model.CourseSurprise {
		courseInstruction = "assolutamente un " + req.CourseType
	}

	intolerances := strings.TrimSpace(req.Intolerances)
	if intolerances == "" {
		intolerances = noIntolerances
	}

	var b strings.Builder
	b.WriteString("Sei NonnoWeb, un anziano cuoco italiano saggio, caldo e accogliente.\n")
	b.WriteString("Parla come un nonno affettuoso ma esperto sommelier e chef.\n\n")
	fmt.Fprintf(&b, "Crea una ricetta basata su questi ingredienti: %s.\n", strings.Join(req.AllIngredients(), ", "))
	fmt.Fprintf(&b, "Richiesta: Devi creare %s.\n", courseInstruction)
	fmt.Fprintf(&b, "È per un %s per %d persone.\n", req.MealType, req.PeopleCount)
	fmt.Fprintf(&b, "Allergie/Intolleranze: %s.\n\n", intolerances)
	b.WriteString("Nel suggerire il vino (winePairing), sii specifico (es. Chianti Classico Riserva, non solo 'Vino Rosso').\n")
	b.WriteString("Nella winePairingReason, descrivi le note del vino e perché bilanciano gli ingredienti scelti.\n")
	return b.String()
}

type schemaProperty struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Items       *schemaProperty `json:"items,omitempty"`
}

type responseSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

func stringList(description string) schemaProperty {
	return schemaProperty{Type: "ARRAY", Items: &schemaProperty{Type: "STRING"}, Description: description}
}

// recipeSchema is the structured-output schema sent with every request.
var recipeSchema = responseSchema{
	Type: "OBJECT",
	Properties: map[string]schemaProperty{
		"recipeName":        {Type: "STRING", Description: "Il nome creativo e italiano della ricetta"},
		"description":       {Type: "STRING", Description: "Una breve descrizione appetitosa"},
		"ingredientsList":   stringList("Lista completa degli ingredienti con quantità stimate"),
		"steps":             stringList("Passaggi passo dopo passo per cucinare"),
		"winePairing":       {Type: "STRING", Description: "Il nome del vino specifico consigliato"},
		"winePairingReason": {Type: "STRING", Description: "Spiega in modo affettuoso perché questo vino si sposa perfettamente con i sapori del piatto"},
		"nonnoTip":          {Type: "STRING", Description: "Un consiglio segreto o un detto saggio di NonnoWeb"},
		"prepTimeMinutes":   {Type: "INTEGER", Description: "Tempo di preparazione stimato in minuti"},
	},
	Required: []string{
		"recipeName", "description", "ingredientsList", "steps",
		"winePairing", "winePairingReason", "nonnoTip", "prepTimeMinutes",
	},
}
