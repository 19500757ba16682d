package tutor

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Subjects is the fixed catalogue offered by the subject picker.
var Subjects = []Subject{
	{ID: "mathematics", Name: "Mathematics", Icon: "📐"},
	{ID: "science", Name: "Science", Icon: "🔬"},
	{ID: "programming", Name: "Programming", Icon: "💻"},
	{ID: "languages", Name: "Languages", Icon: "🌍"},
	{ID: "history", Name: "History", Icon: "📚"},
	{ID: "literature", Name: "Literature", Icon: "📖"},
}
