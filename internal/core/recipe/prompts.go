package recipe

import "fmt"

// BlurbPrompt 兩行簡介的 prompt
func BlurbPrompt(title string) string {
	return fmt.Sprintf("Write a short, friendly 2-line description for the recipe '%s'. "+
		"Keep it simple and student-like, no fancy tone.", title)
}

// GenerationPrompt 完整食譜生成的 prompt
func GenerationPrompt(description string, maxTime int) string {
	return fmt.Sprintf(`Create one recipe for: %s
It must take at most %d minutes in total.
Return ONLY a JSON object, no prose, with exactly these keys:
{
  "title": string,
  "total_time_minutes": integer,
  "ingredients": [{"name": string, "amount": string}],
  "instructions": [string],
  "blurb": string
}
The blurb is a short, friendly 2-line description in a simple, student-like tone.`, description, maxTime)
}
