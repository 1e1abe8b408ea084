package types

// DateLayout is the display format of exercise dates, e.g. "Sun Jan 15 2023".
const DateLayout = "Mon Jan 02 2006"

// User represents an account that logs exercises.
// It holds the username and the full exercise log.
type User struct {
	// ID is the unique identifier of the user. IDs are assigned by the
	// store from an atomic counter, so they are sequential decimal strings.
	ID string `json:"_id" bson:"_id"`

	// Username is the name chosen when the user was created.
	Username string `json:"username" bson:"username"`

	// Count is the number of entries in Log.
	Count int `json:"count" bson:"count"`

	// Log holds the exercise entries in the order they were added,
	// which is not necessarily date order.
	Log []Exercise `json:"log" bson:"log"`
}

// Exercise is one logged activity.
type Exercise struct {
	// Description is a free-form label for the activity.
	Description string `json:"description" bson:"description"`

	// Duration is the length of the activity, expressed in seconds.
	Duration int `json:"duration" bson:"duration"`

	// Date is the day the activity took place, formatted with DateLayout.
	Date string `json:"date" bson:"date"`
}

// ExerciseAdded is the payload returned after an exercise is logged. It
// combines the new entry with the owning user's identity.
type ExerciseAdded struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
	UserID      string `json:"_id"`
	Username    string `json:"username"`
}

// Clone returns a deep copy of the user, so callers can reshape the log
// without touching the receiver.
func (u User) Clone() User {
	clone := u
	clone.Log = make([]Exercise, len(u.Log))
	copy(clone.Log, u.Log)
	return clone
}
