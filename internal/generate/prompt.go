// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"text/template"
)

var transcribeTmpl = template.Must(template.New("transcribe").Parse(`You are an expert transcriptionist. Transcribe the attached audio, video, image or document to plain text.
Keep the original language. Do not summarize, translate or comment.

Respond with a JSON object of the form {"transcription": "<full text>"} and nothing else.
`))

var languageTmpl = template.Must(template.New("language").Parse(`Detect the primary language of the following text.
Respond with a JSON object of the form {"language": "<language name in English, e.g. Spanish>"} and nothing else.

Content:
{{.Content}}
`))

var summaryTmpl = template.Must(template.New("summary").Parse(`Summarize the following content in a concise manner. The summary must be in the same language as the original content.
Respond with a JSON object of the form {"summary": "<summary>"} and nothing else.

Content:
{{.Content}}
`))

var flashcardsTmpl = template.Must(template.New("flashcards").Parse(`You are a study assistant. Create flashcards covering the key terms and concepts of the following content.
Each flashcard has a short "term" and a one or two sentence "definition". Write them in the same language as the content.
Respond with a JSON object of the form {"flashcards": [{"term": "...", "definition": "..."}]} and nothing else.

Content:
{{.Content}}
`))

var mindMapTmpl = template.Must(template.New("mindmap").Parse(`You are an expert in creating mind maps. Build a hierarchical mind map of the following content, in the same language as the content.
Write it as an indented outline: one topic per line, each line starting with "- ", two spaces of indentation per level, the main topic at level zero.

Example:
- Photosynthesis
  - Light reactions
    - Chlorophyll
  - Calvin cycle

Respond with a JSON object of the form {"mindMap": "<outline with \n line breaks>"} and nothing else.

Content:
{{.Content}}
`))

var quizTmpl = template.Must(template.New("quiz").Parse(`You are a teacher writing a multiple-choice quiz about the following content, in the same language as the content.
Write between 5 and 10 questions. Each question has 4 options and exactly one correct answer, copied verbatim from the options into "correctAnswer".
Respond with a JSON object of the form {"quiz": [{"question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "..."}]} and nothing else.

Content:
{{.Content}}
`))

var videoTmpl = template.Must(template.New("videos").Parse(`You are selecting YouTube videos that help a student study a topic.

Topic:
{{.Topic}}
{{if .Language}}
The student reads {{.Language}}; prefer videos in that language.
{{end}}
Candidate videos from a YouTube search:
{{range .Candidates}}- id: {{.ID}} title: {{.Title}}
{{end}}
Pick at most 3 candidates that are relevant to the topic and publicly viewable. Format each as https://www.youtube.com/watch?v=<id>.
Never use youtu.be short links, embed links or any other URL form, and never invent ids that are not in the list.
Respond with a JSON object of the form {"videoLinks": ["https://www.youtube.com/watch?v=..."]} and nothing else. Use an empty array if nothing fits.
`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
