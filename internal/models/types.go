package models

import "time"

// Exchange status values as reported by the backend. The client never
// transitions these itself; it renders whatever the last fetch returned.
const (
	ExchangePending  = "PENDING"
	ExchangeApproved = "APPROVED"
	ExchangeRejected = "REJECTED"
)

// Listing condition values.
const (
	ConditionNew     = "NEW"
	ConditionLikeNew = "LIKE_NEW"
	ConditionGood    = "GOOD"
	ConditionFair    = "FAIR"
	ConditionPoor    = "POOR"
)

type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type City struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Role      string `json:"role"`
	IsBanned  bool   `json:"isBanned"`
	City      City   `json:"city"`
}

// Listing is a single book-copy offer. It is both the subject of a dialog
// and the thing a non-owner attaches to a message as an exchange offer.
type Listing struct {
	ID        int64     `json:"id"`
	Book      Book      `json:"book"`
	City      City      `json:"city"`
	Owner     User      `json:"owner"`
	Condition string    `json:"condition"`
	ImageURLs []string  `json:"imageUrls"`
	IsOpen    bool      `json:"isOpen"`
	IsBlocked bool      `json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dialog is a conversation thread scoped to exactly one listing, between the
// listing owner and one other user. Created implicitly by the backend on the
// first message to a listing.
type Dialog struct {
	DialogID           int64  `json:"dialogId"`
	ListingID          int64  `json:"listingId"`
	BookTitle          string `json:"bookTitle"`
	BookAuthor         string `json:"bookAuthor"`
	BookImageURL       string `json:"bookImageUrl,omitempty"`
	BookCondition      string `json:"bookCondition,omitempty"`
	ListingOwnerID     int64  `json:"listingOwnerId"`
	ListingOwnerName   string `json:"listingOwnerName"`
	ListingOwnerAvatar string `json:"listingOwnerAvatar,omitempty"`
	LastMessageContent string `json:"lastMessageContent,omitempty"`
	LastMessageAuthor  string `json:"lastMessageAuthor,omitempty"`
	LastMessageTime    string `json:"lastMessageTime,omitempty"`
}

// Exchange is the record embedded in a proposal message. Status transitions
// happen only through the approve/reject endpoints.
type Exchange struct {
	ID              int64     `json:"id"`
	Status          string    `json:"status"`
	OfferedListing  Listing   `json:"offeredListing"`
	SelectedListing Listing   `json:"selectedListing"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Message struct {
	MessageID          int64     `json:"messageId"`
	AuthorID           int64     `json:"authorId"`
	AuthorName         string    `json:"authorName"`
	Content            string    `json:"content"`
	ImageURLs          []string  `json:"imageUrls"`
	IsExchangeProposal bool      `json:"isExchangeProposal"`
	Exchange           *Exchange `json:"exchange,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// TokenPair is the login response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ListingPage is the Spring-style page envelope used by listing endpoints.
type ListingPage struct {
	Content    []Listing `json:"content"`
	TotalPages int       `json:"totalPages"`
	Number     int       `json:"number"`
	Last       bool      `json:"last"`
}

// CreateReview is the JSON `data` part of a review submission.
type CreateReview struct {
	ListingID int64  `json:"listingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateComplaint is the JSON `data` part of a complaint submission.
type CreateComplaint struct {
	ListingID int64  `json:"listingId"`
	Comment   string `json:"comment"`
}
