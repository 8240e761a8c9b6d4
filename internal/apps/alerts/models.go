package alerts

// --- DTOs ---

type FeedResponse struct {
	Notifications []FeedItem `json:"notifications"`
}
