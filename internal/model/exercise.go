package model

// Exercise is one coding-literacy question. The slug doubles as the document
// key so that pool reads have a stable order across all clients.
type Exercise struct {
	Slug    string   `json:"slug" bson:"_id"`
	Title   string   `json:"title" bson:"title"`
	Prompt  string   `json:"prompt" bson:"prompt"`
	Options []string `json:"options" bson:"options"`
	Answer  int      `json:"answer" bson:"answer"`
	XP      int      `json:"xp" bson:"xp"`
}
