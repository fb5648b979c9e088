package api

import (
	"bytes"
	"encoding/json"
)

type credentialsInput struct {
	Username string `json:"username" form:"username" validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
}

type habitCreateInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	GoalType     string  `json:"goal_type" validate:"required"`
	ReminderTime *string `json:"reminder_time" validate:"omitempty,datetime=15:04"`
}

type habitUpdateInput struct {
	Name         *string        `json:"name" validate:"omitempty,max=100"`
	GoalType     *string        `json:"goal_type"`
	ReminderTime optionalString `json:"reminder_time"`
}

type entryCreateInput struct {
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Journal *string `json:"journal"`
}

type journalInput struct {
	Journal optionalString `json:"journal"`
}

type categoryCreateInput struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type categoryUpdateInput struct {
	Name  *string `json:"name" validate:"omitempty,max=50"`
	Color *string `json:"color"`
}

// optionalString tells an absent JSON key apart from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (field *optionalString) UnmarshalJSON(data []byte) error {
	field.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		field.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	field.Value = &value
	return nil
}
