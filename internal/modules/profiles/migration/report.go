package migration

import "github.com/yungbote/profileforms-backend/internal/modules/profiles/schema"

// Report summarises a migration for the admin editor.
type Report struct {
	ProfileTypeID        string            `json:"profileTypeId"`
	PreviousID           string            `json:"previousId"`
	ProfileTypeIDChanged bool              `json:"profileTypeIdChanged"`
	SectionsAdded        int               `json:"sectionsAdded"`
	SectionsRemoved      int               `json:"sectionsRemoved"`
	SectionsRetained     int               `json:"sectionsRetained"`
	SectionsRenamed      int               `json:"sectionsRenamed"`
	Added                []string          `json:"added"`
	Removed              []string          `json:"removed"`
	Renamed              map[string]string `json:"renamed"`
	QuestionsBefore      int               `json:"questionsBefore"`
	QuestionsAfter       int               `json:"questionsAfter"`
	QuestionsDropped     int               `json:"questionsDropped"`
	UsersRecanonicalized int64             `json:"usersRecanonicalized"`
	AnswerSetsMoved      int64             `json:"answerSetsMoved"`
}

func newReport(before, after schema.ProfileType, d Diff) Report {
	dropped := 0
	for _, id := range d.Removed {
		dropped += len(before.Sections[id].Questions)
	}
	renamed := make(map[string]string, len(d.Renamed))
	for k, v := range d.Renamed {
		renamed[k] = v
	}
	return Report{
		ProfileTypeID:        after.ID,
		PreviousID:           before.ID,
		ProfileTypeIDChanged: before.ID != after.ID,
		SectionsAdded:        len(d.Added),
		SectionsRemoved:      len(d.Removed),
		SectionsRetained:     len(d.Retained),
		SectionsRenamed:      len(d.Renamed),
		Added:                append([]string{}, d.Added...),
		Removed:              append([]string{}, d.Removed...),
		Renamed:              renamed,
		QuestionsBefore:      before.QuestionCount(),
		QuestionsAfter:       after.QuestionCount(),
		QuestionsDropped:     dropped,
	}
}
