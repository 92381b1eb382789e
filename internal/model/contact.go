package model

import (
	"net/mail"
	"time"
)

type ContactMessage struct {
	ID        string    `db:"id" json:"id"`
	SenderID  string    `db:"sender_id" json:"senderId"`
	VendorID  string    `db:"vendor_id" json:"vendorId"`
	ReplyTo   string    `db:"reply_to" json:"replyTo"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateContactDTO struct {
	Validator

	VendorID string `json:"vendorId"`
	ReplyTo  string `json:"replyTo"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func (dto CreateContactDTO) Validate() map[string]string {
	errs := map[string]string{}

	if dto.VendorID == "" {
		errs["vendorId"] = ErrEmptyField
	}
	if dto.ReplyTo == "" {
		errs["replyTo"] = ErrEmptyField
	} else if _, err := mail.ParseAddress(dto.ReplyTo); err != nil {
		errs["replyTo"] = ErrInvalidField
	}
	if dto.Subject == "" {
		errs["subject"] = ErrEmptyField
	} else if len([]rune(dto.Subject)) > 200 {
		errs["subject"] = ErrInvalidField
	}
	if dto.Body == "" {
		errs["body"] = ErrEmptyField
	} else if len([]rune(dto.Body)) > 5000 {
		errs["body"] = ErrInvalidField
	}

	return errs
}
