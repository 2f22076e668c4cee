package models

import "time"

type Booking struct {
	ID            string    `bson:"_id,omitempty" json:"_id"`
	CampID        string    `bson:"campId" json:"campId"`
	UserID        string    `bson:"userId" json:"userId"`
	UserName      string    `bson:"userName" json:"userName"`
	BookingNumber string    `bson:"bookingNumber" json:"bookingNumber"`
	BookedAt      time.Time `bson:"bookedAt" json:"bookedAt"`
	CampName      string    `bson:"campName" json:"campName"`
}
