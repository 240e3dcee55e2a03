package catalog

// Lesson is one entry of the curriculum.
type Lesson struct {
	ID                string       `json:"id" yaml:"id"`
	Title             string       `json:"title" yaml:"title"`
	Emoji             string       `json:"emoji,omitempty" yaml:"emoji"`
	Badge             string       `json:"badge,omitempty" yaml:"badge"`
	LearningIntention string       `json:"learning_intention,omitempty" yaml:"learning_intention"`
	TimeMinutes       int          `json:"time_minutes,omitempty" yaml:"time_minutes"`
	Subjects          []string     `json:"subjects,omitempty" yaml:"subjects"`
	Student           StudentView  `json:"student" yaml:"student"`
	Teacher           TeacherNotes `json:"teacher" yaml:"teacher"`
}

// StudentView is the learner-facing content of a lesson.
type StudentView struct {
	Intro      string   `json:"intro,omitempty" yaml:"intro"`
	Activities []string `json:"activities,omitempty" yaml:"activities"`
}

// TeacherNotes is the teacher-facing content of a lesson.
type TeacherNotes struct {
	LearningObjective string   `json:"learning_objective_formal,omitempty" yaml:"learning_objective_formal"`
	SuccessCriteria   []string `json:"success_criteria,omitempty" yaml:"success_criteria"`
	NCAlignment       []string `json:"nc_alignment,omitempty" yaml:"nc_alignment"`
}

// Badge is a read-only achievement definition.
type Badge struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Icon    string `json:"icon" yaml:"icon"`
	Caption string `json:"caption" yaml:"caption"`
}

// FallbackBadges is used when no badge catalog can be loaded.
var FallbackBadges = []Badge{
	{ID: "B1_nature_detective", Title: "Nature Detective", Icon: "🧭", Caption: "I can compare places and spot patterns."},
}
