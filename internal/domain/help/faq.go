package help

import "strings"

type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Topic struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

var topics = []Topic{
	{"getting-started", "Getting Started", "Learn the basics of CareCircle and how to set up your account"},
	{"managing-tasks", "Managing Tasks", "Learn how to create, assign, and track tasks for caregiving"},
	{"medication-tracking", "Medication Tracking", "Tips for managing medications and setting up reminders"},
}

var faqs = []FAQ{
	{
		ID:       "invite-family",
		Question: "How do I invite family members to join?",
		Answer:   "From your Dashboard, click on \"Invite Members\" in the sidebar. Enter their email address and they'll receive an invitation to join your care circle. They'll need to create an account using email/password authentication.",
	},
	{
		ID:       "mobile",
		Question: "Can I use CareCircle on my mobile device?",
		Answer:   "Yes! CareCircle is designed to work on both desktop and mobile devices. Simply open your web browser on your phone or tablet and navigate to the CareCircle website. The interface will automatically adjust to your screen size.",
	},
	{
		ID:       "medication-reminders",
		Question: "How do I set up medication reminders?",
		Answer:   "Navigate to the Medication Tracker page and add a new medication with its frequency and times. Everyone in the care circle is reminded shortly before each dose is due. Make sure you have notifications enabled in your profile settings.",
	},
	{
		ID:       "security",
		Question: "Is my information secure?",
		Answer:   "CareCircle takes security seriously. All data is encrypted, and we use secure authentication methods. Your information is only accessible to members of your care circle whom you have invited. We never share your data with third parties.",
	},
	{
		ID:       "upload-documents",
		Question: "How do I upload documents?",
		Answer:   "Go to the Documents page and click the \"Upload Document\" button. You can upload various file types including PDFs, images, and text documents. Add a description to help others understand what the document contains.",
	},
}

// Search filtra por pregunta o respuesta, sin importar mayúsculas.
// q vacío devuelve todas.
func Search(q string) []FAQ {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]FAQ, 0, len(faqs))
	for _, f := range faqs {
		if q == "" ||
			strings.Contains(strings.ToLower(f.Question), q) ||
			strings.Contains(strings.ToLower(f.Answer), q) {
			out = append(out, f)
		}
	}
	return out
}

func Topics() []Topic {
	return append([]Topic(nil), topics...)
}
