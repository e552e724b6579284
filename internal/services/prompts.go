package services

import (
	"fmt"
	"strings"
)

func syllabusPrompt(topic, level string, dailyMinutes int) string {
	return fmt.Sprintf(`
Design a complete learning syllabus for a student who wants to learn "%[1]s"
at the "%[2]s" level and can study %[3]d minutes per day.
Organise it into 3-5 chapters with 3-6 lessons each.
Every lesson must fit into roughly %[3]d minutes.

Respond with JSON only, shaped exactly like this:
{
    "course_id": "unique-id",
    "title": "Course title",
    "description": "Short course description",
    "chapters": [
        {"title": "Chapter title", "lessons": ["Lesson title", "Lesson title"]}
    ]
}
`, topic, level, dailyMinutes)
}

const mindmapRules = `Use Mermaid.js MINDMAP syntax (never a flowchart):
mindmap
  root((Main Topic))
    Branch1
      Leaf1
      Leaf2
    Branch2
      Leaf3
Keep every label short (3-4 words at most), decorate labels with emojis (📚 🎯 💡 🔑 ⚡ 🌟),
and use no more than 4 main branches with 2-3 leaves each.`

func lessonPrompt(lessonTitle, topic, level string) string {
	return fmt.Sprintf(`
Write rich lesson content for the lesson "%s", part of a course on "%s" at the "%s" level.
Include:
1. A long, engaging guide in Markdown.
2. A diagram of the main concepts. %s
3. A one-sentence summary.

Respond with JSON only:
{
    "lesson_title": %q,
    "content_markdown": "Markdown guide...",
    "mermaid_code": "mindmap\n  root((Topic))\n    Branch1\n      Leaf1",
    "summary": "One sentence."
}
`, lessonTitle, topic, level, mindmapRules, lessonTitle)
}

func quizPrompt(lessonTitle, topic, level string, numQuestions int) string {
	return fmt.Sprintf(`
Write a quiz for the lesson "%s" from the course "%s" at the "%s" level.
Produce exactly %d multiple-choice questions with four options each.

Respond with JSON only:
{
    "questions": [
        {
            "question": "Question text?",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct_index": 0,
            "explanation": "Why the correct option is right"
        }
    ]
}
`, lessonTitle, topic, level, numQuestions)
}

func diagramPrompt(concept, level string) string {
	return fmt.Sprintf(`
Draw a diagram for the concept "%s" at the "%s" level.
%s

Return ONLY the mermaid code, with no explanation and no code fences.
`, concept, level, mindmapRules)
}

func suggestionsPrompt(topics []string) string {
	return fmt.Sprintf(`
A learner has recently studied: %s

Suggest 3 related but different course topics they might enjoy next.
Each suggestion should complement their interests while branching into new areas.

Respond with JSON only:
{
    "suggestions": [
        {"title": "Course title", "description": "One sentence on what they will learn"}
    ]
}
`, strings.Join(topics, ", "))
}
