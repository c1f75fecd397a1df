package model

type Event struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Details    string `json:"details,omitempty"`
	Location   string `json:"location,omitempty"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	GoingCount int64  `json:"going_count"`
	MyRSVP     string `json:"my_rsvp,omitempty"`
}

type EventRSVP struct {
	User   User   `json:"user"`
	Status string `json:"status"`
}

type CreateEventRequest struct {
	Title     string `json:"title"`
	Details   string `json:"details"`
	Location  string `json:"location"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateEventResponse struct {
	ID string `json:"id"`
}

type GetEventsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetEventsResponse struct {
	Events []Event `json:"events,omitempty"`
}

type RSVPEventRequest struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

type RSVPEventResponse struct{}

type GetEventRSVPsRequest struct {
	EventID string `json:"event_id"`
}

type GetEventRSVPsResponse struct {
	RSVPs []EventRSVP `json:"rsvps,omitempty"`
}
