package models

import "time"

type Doctor struct {
	Name      string `bson:"name" json:"name"`
	Specialty string `bson:"specialty" json:"specialty"`
}

type Camp struct {
	ID        string    `bson:"_id,omitempty" json:"_id"`
	Name      string    `bson:"name" json:"name"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	Location  string    `bson:"location" json:"location"`
	Address   string    `bson:"address" json:"address"`
	MapURL    string    `bson:"mapUrl" json:"mapUrl"`
	Contact   string    `bson:"contact" json:"contact"`
	Details   string    `bson:"details" json:"details"`
	Doctors   []Doctor  `bson:"doctors" json:"doctors"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CampPatch holds the editable camp fields. Nil fields are left untouched
// when the patch is applied.
type CampPatch struct {
	Name     *string   `bson:"name,omitempty" json:"name"`
	Date     *string   `bson:"date,omitempty" json:"date"`
	Time     *string   `bson:"time,omitempty" json:"time"`
	Location *string   `bson:"location,omitempty" json:"location"`
	Address  *string   `bson:"address,omitempty" json:"address"`
	MapURL   *string   `bson:"mapUrl,omitempty" json:"mapUrl"`
	Contact  *string   `bson:"contact,omitempty" json:"contact"`
	Details  *string   `bson:"details,omitempty" json:"details"`
	Doctors  *[]Doctor `bson:"doctors,omitempty" json:"doctors"`
}
