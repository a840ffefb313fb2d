package importer

import "strings"

// StarterTemplate is the document a fresh session starts from when no
// upload is provided. Kept as plain lines so section analysis can span it.
const StarterTemplate = `Your Name
your.email@example.com | (555) 555-5555 | City, State

Professional Summary
Results-driven professional with experience in your field. Skilled at solving problems and delivering value.

Work Experience
Company Name, Job Title, 2020-Present
- Accomplished X by doing Y, resulting in Z
- Led a team or project with measurable outcomes

Education
University Name, Degree, Year

Skills
Skill One, Skill Two, Skill Three
`

// Detect picks the extractor for an uploaded file by extension and
// returns the extracted text. Plain text passes through unchanged.
func Detect(filename string, data []byte) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".docx"):
		return FromDOCX(data)
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return FromHTML(data)
	case strings.HasSuffix(name, ".txt"), strings.HasSuffix(name, ".md"):
		return string(data), nil
	default:
		ext := "unknown"
		if i := strings.LastIndex(name, "."); i >= 0 {
			ext = name[i+1:]
		}
		return "", &ErrUnsupportedFormat{Format: ext}
	}
}
