package models

import "time"

type Feedback struct {
	ID          string    `bson:"_id,omitempty" json:"_id"`
	UserID      string    `bson:"userId" json:"userId"`
	UserName    string    `bson:"userName" json:"userName"`
	Rating      int       `bson:"rating" json:"rating"`
	Comment     string    `bson:"comment" json:"comment"`
	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
}
