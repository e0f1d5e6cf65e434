package prompts

const discoverySpec = `Respond with a JSON object matching this exact structure:

{
  "child_name": "<name>",
  "child_age": 5,
  "child_gender": "<gender or empty string>",
  "details": "<description of the challenge>",
  "desired_outcome": "<what the parent hopes the story achieves>",
  "additional_context": "<interests, themes, or recent changes>"
}

Field constraints:
- child_name: The child's name exactly as the parent gave it.
- child_age: Integer age between 1 and 18.
- child_gender: "boy", "girl", or empty string when not stated.
- details: The challenge in the parent's own terms, complete enough to
  write a story from.
- desired_outcome: The feeling or behavior change the parent described.
- additional_context: Interests and circumstances worth weaving into the
  story. Empty string when none were mentioned.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never fabricate a name, age, or detail the parent did not provide
- Preserve the parent's wording where it carries emotional nuance`

const narrationSpec = `Respond with a JSON object matching this exact structure:

{
  "book_title": "<title featuring the child's name>",
  "style_guidance": "<consistent artistic style for all illustrations>",
  "total_pages": 8,
  "pages": [
    {
      "page_number": 1,
      "title": "<page heading>",
      "story_content": "<2-4 sentences of story text>",
      "scene_description": "<visual description for the illustrator>"
    }
  ]
}

Field constraints:
- book_title: Creative and uplifting, featuring the child's name.
- style_guidance: One detailed artistic style applied to every page,
  e.g. "Watercolor with soft edges, warm colors, and dreamlike quality".
- total_pages: Must equal the number of entries in pages.
- pages: One entry per page, numbered contiguously from 1. Every field
  must be non-empty.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Produce exactly the requested number of pages
- Keep language appropriate for the child's stated age`

const seedImageSpec = `Output constraints:

- Produce exactly one image
- Square format (1:1 aspect ratio), target 800x800 pixels
- Both character poses visible and well proportioned in the single image
- No accompanying text is required; any text returned is ignored`

const illustrationSpec = `Output constraints:

- Produce exactly one image
- Square format (1:1 aspect ratio), consistent size across all pages
- No accompanying text is required; any text returned is ignored`

var specs = map[Stage]string{
	StageDiscovery:    discoverySpec,
	StageSeedImage:    seedImageSpec,
	StageNarration:    narrationSpec,
	StageIllustration: illustrationSpec,
}

// Spec returns the hardcoded specification for a generation stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
