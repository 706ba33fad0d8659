package models

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// GalleryItem is a community photo attached to an event.
type GalleryItem struct {
	UserName string `json:"userName"`
	URL      string `json:"url"`
	IsMine   bool   `json:"isMine"`
}

// EventRating aggregates the star ratings of an event. MyRating is 0 when
// the current user has not rated yet.
type EventRating struct {
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
	MyRating int     `json:"myRating"`
}

// CakeEvent is a scheduled cake on the group calendar.
type CakeEvent struct {
	ID          string        `json:"id"`
	GroupID     string        `json:"groupId"`
	GroupName   string        `json:"groupName,omitempty"`
	BakerID     string        `json:"bakerId"`
	BakerName   string        `json:"bakerName"`
	Date        string        `json:"date"`
	Description string        `json:"description"`
	PhotoURL    string        `json:"photoUrl,omitempty"`
	Gallery     []GalleryItem `json:"gallery"`

	IsOwner   bool `json:"isOwner"`
	IsFuture  bool `json:"isFuture"`
	CanDelete bool `json:"canDelete"`

	Rating EventRating `json:"rating"`
}

// NewCakeEvent is the subset of CakeEvent a client sends when creating one.
type NewCakeEvent struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"max=2000"`
}

// Rating is the payload for rating an event.
type Rating struct {
	Stars   int    `json:"stars" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}
