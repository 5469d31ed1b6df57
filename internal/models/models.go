package models

import "time"

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// User is the backend's projection of an account. Score is the mean of
// received ratings, 0 when the user has never been rated.
type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     string   `json:"phone"`
	Vehicle   *Vehicle `json:"vehicle,omitempty"`
	Score     float64  `json:"score,omitempty"`
}

func (u User) FullName() string { return u.FirstName + " " + u.LastName }

// Vehicle belongs to exactly one user; the backend enforces at most one per
// account and the dashboard only offers "add" while none exists.
type Vehicle struct {
	ID     int64  `json:"id"`
	Plate  string `json:"plate"`
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	UserID int64  `json:"userId"`
}

type RideStatus string

const (
	RideOpen      RideStatus = "OPEN"
	RideOngoing   RideStatus = "ONGOING"
	RideCompleted RideStatus = "COMPLETED"
	RideCanceled  RideStatus = "CANCELED"
)

// Ride is a posted journey. Coordinates, distance and duration are optional:
// they are present only when the ride was created in geocoded address mode.
type Ride struct {
	ID                   int64      `json:"id"`
	Driver               User       `json:"driver"`
	Title                string     `json:"title"`
	OriginAddress        string     `json:"originAddress"`
	DestinationAddress   string     `json:"destinationAddress"`
	OriginLatitude       float64    `json:"originLatitude,omitempty"`
	OriginLongitude      float64    `json:"originLongitude,omitempty"`
	DestinationLatitude  float64    `json:"destinationLatitude,omitempty"`
	DestinationLongitude float64    `json:"destinationLongitude,omitempty"`
	DistanceInMeters     float64    `json:"distanceInMeters,omitempty"`
	DurationInSeconds    float64    `json:"durationInSeconds,omitempty"`
	DepartTime           time.Time  `json:"departTime"`
	Price                float64    `json:"price"`
	Status               RideStatus `json:"status"`
}

func (r Ride) HasRoute() bool {
	return r.OriginLatitude != 0 && r.OriginLongitude != 0 &&
		r.DestinationLatitude != 0 && r.DestinationLongitude != 0
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

// RideRequest is a guest's application to join a ride. Guest is omitted when
// the caller is the guest themselves.
type RideRequest struct {
	ID     int64         `json:"id"`
	Ride   Ride          `json:"ride"`
	Guest  *User         `json:"guest,omitempty"`
	Status RequestStatus `json:"status"`
}

// Rate is a post-hoc review of a completed ride's driver by one of its guests.
type Rate struct {
	ID        int64     `json:"id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	RaterUser User      `json:"raterUser"`
	RatedUser User      `json:"ratedUser"`
	Ride      Ride      `json:"ride"`
	CreatedAt time.Time `json:"createdAt"`
}
