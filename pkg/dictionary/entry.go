package dictionary

// NoExample is used as example text for definitions that come without one.
const NoExample = "No example available"

// LookupResult is a single response of the dictionary API.
type LookupResult []*Entry

type Entry struct {
	Word     string     `json:"word"`
	Phonetic string     `json:"phonetic,omitempty"`
	Meanings []*Meaning `json:"meanings"`
}

type Meaning struct {
	PartOfSpeech string        `json:"partOfSpeech"`
	Definitions  []*Definition `json:"definitions"`
}

type Definition struct {
	Definition string `json:"definition"`
	// Example is empty when the API has no example for this definition
	Example string `json:"example,omitempty"`
}

// FlattenedDefinition is what actually gets displayed
type FlattenedDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// Flatten collapses entries, meanings and definitions into one sequence.
// Order of the nested traversal is preserved and every definition appears exactly once.
func Flatten(result LookupResult) []FlattenedDefinition {
	definitions := make([]FlattenedDefinition, 0, result.Len())
	for _, entry := range result {
		if entry == nil {
			continue
		}
		for _, meaning := range entry.Meanings {
			if meaning == nil {
				continue
			}
			for _, definition := range meaning.Definitions {
				if definition == nil {
					continue
				}
				example := definition.Example
				if example == "" {
					example = NoExample
				}
				definitions = append(definitions, FlattenedDefinition{
					Definition: definition.Definition,
					Example:    example,
				})
			}
		}
	}
	return definitions
}

// Len returns total number of definitions in result
func (r LookupResult) Len() int {
	var n int
	for _, entry := range r {
		if entry == nil {
			continue
		}
		for _, meaning := range entry.Meanings {
			if meaning == nil {
				continue
			}
			for _, definition := range meaning.Definitions {
				if definition != nil {
					n++
				}
			}
		}
	}
	return n
}

// First returns the first flattened definition, ok is false if result has no definitions.
func First(result LookupResult) (FlattenedDefinition, bool) {
	definitions := Flatten(result)
	if len(definitions) == 0 {
		return FlattenedDefinition{}, false
	}
	return definitions[0], true
}
