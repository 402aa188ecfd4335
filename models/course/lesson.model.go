package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LessonTypeText  = "TEXT"
	LessonTypeVideo = "VIDEO"
	LessonTypeQuiz  = "QUIZ"
)

// Default quiz rewards by attempt ordinal.
const (
	DefaultRewardFirst  = 100
	DefaultRewardSecond = 80
	DefaultRewardThird  = 60
	DefaultRewardOther  = 40
)

// Lesson is a unit of content inside a module.
type Lesson struct {
	gorm.Model
	CourseID    uint                               `json:"course_id" gorm:"index;not null"`
	ModuleID    uint                               `json:"module_id" gorm:"index"`
	Title       string                             `json:"title"`
	Description string                             `json:"description"`
	LessonType  string                             `json:"lesson_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, QUIZ
	TextContent string                             `json:"text_content" gorm:"type:text"`
	VideoURL    string                             `json:"video_url"`
	OrderIndex  int                                `json:"order_index" gorm:"default:0"`
	Settings    datatypes.JSONType[LessonSettings] `json:"settings"`
	IsPublished bool                               `json:"is_published" gorm:"default:false"`
	IsDeleted   bool                               `json:"-" gorm:"default:false"`
}

// LessonSettings is the free-form configuration stored with a lesson.
type LessonSettings struct {
	Rewards *RewardSchedule `json:"rewards,omitempty"`
}

// RewardSchedule maps attempt-ordinal buckets to a point award.
// A nil field falls back to its default; an explicit zero is kept.
type RewardSchedule struct {
	First  *int `json:"first,omitempty"`
	Second *int `json:"second,omitempty"`
	Third  *int `json:"third,omitempty"`
	Other  *int `json:"other,omitempty"`
}

// RewardTiers is a fully resolved RewardSchedule.
type RewardTiers struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
	Other  int `json:"other"`
}

// Resolve fills unset buckets with the defaults.
func (r *RewardSchedule) Resolve() RewardTiers {
	tiers := RewardTiers{
		First:  DefaultRewardFirst,
		Second: DefaultRewardSecond,
		Third:  DefaultRewardThird,
		Other:  DefaultRewardOther,
	}
	if r == nil {
		return tiers
	}
	if r.First != nil {
		tiers.First = *r.First
	}
	if r.Second != nil {
		tiers.Second = *r.Second
	}
	if r.Third != nil {
		tiers.Third = *r.Third
	}
	if r.Other != nil {
		tiers.Other = *r.Other
	}
	return tiers
}

// ForAttempt returns the award for the given 1-based attempt ordinal.
func (t RewardTiers) ForAttempt(attempt int) int {
	switch {
	case attempt <= 1:
		return t.First
	case attempt == 2:
		return t.Second
	case attempt == 3:
		return t.Third
	default:
		return t.Other
	}
}

// Rewards returns the lesson's effective reward tiers.
func (l *Lesson) Rewards() RewardTiers {
	return l.Settings.Data().Rewards.Resolve()
}
