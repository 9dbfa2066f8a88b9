package models

import "time"

// Purchase status constants
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// ValidStatuses lists the accepted purchase statuses in the order the API
// reports them.
var ValidStatuses = []string{StatusPending, StatusCompleted, StatusCancelled, StatusRefunded}

// Email log status constants
const (
	EmailSent   = "sent"
	EmailFailed = "failed"
)

// Request types

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Rut      string `json:"rut"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateEventRequest struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Artist           string  `json:"artist"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	Venue            string  `json:"venue"`
	Location         string  `json:"location"`
	Price            float64 `json:"price"`
	Image            string  `json:"image"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	AvailableTickets int     `json:"availableTickets"`
	TotalTickets     int     `json:"totalTickets"`
	IsActive         *bool   `json:"isActive"`
}

// UpdateEventRequest uses pointers so absent fields are left untouched.
type UpdateEventRequest struct {
	Title            *string  `json:"title"`
	Artist           *string  `json:"artist"`
	Date             *string  `json:"date"`
	Time             *string  `json:"time"`
	Venue            *string  `json:"venue"`
	Location         *string  `json:"location"`
	Price            *float64 `json:"price"`
	Image            *string  `json:"image"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category"`
	AvailableTickets *int     `json:"availableTickets"`
	TotalTickets     *int     `json:"totalTickets"`
	IsActive         *bool    `json:"isActive"`
}

type CreatePurchaseRequest struct {
	UserID        int     `json:"userId"`
	EventID       string  `json:"eventId"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	ServiceCharge float64 `json:"serviceCharge"`
	TotalPrice    float64 `json:"totalPrice"`
}

type UpdatePurchaseStatusRequest struct {
	Status string `json:"status"`
}

type ValidateEntryRequest struct {
	TicketQr string `json:"ticketQr"`
	IDCardQr string `json:"idCardQr"`
}

// Response types

type LoginResponse struct {
	SessionToken string `json:"sessionToken"`
	User         User   `json:"user"`
}

type CreatePurchaseResponse struct {
	Purchase Purchase `json:"purchase"`
	Tickets  []Ticket `json:"tickets"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	PerPage int  `json:"perPage"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

type ListUsersResponse struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

type ListEventsResponse struct {
	Events     []Event    `json:"events"`
	Pagination Pagination `json:"pagination"`
}

type ListPurchasesResponse struct {
	Purchases  []Purchase `json:"purchases"`
	Pagination Pagination `json:"pagination"`
}

type PurchaseTicketsResponse struct {
	Tickets  []Ticket `json:"tickets"`
	Purchase Purchase `json:"purchase"`
}

// Domain types

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Rut       string    `json:"rut,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Artist           string    `json:"artist"`
	Date             string    `json:"date"`
	Time             *string   `json:"time,omitempty"`
	Venue            string    `json:"venue"`
	Location         string    `json:"location"`
	Price            float64   `json:"price"`
	Image            *string   `json:"image,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Category         *string   `json:"category,omitempty"`
	AvailableTickets int       `json:"availableTickets"`
	TotalTickets     int       `json:"totalTickets"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Purchase struct {
	ID            int        `json:"id"`
	OrderNumber   string     `json:"orderNumber"`
	UserID        int        `json:"userId"`
	EventID       string     `json:"eventId"`
	Quantity      int        `json:"quantity"`
	UnitPrice     float64    `json:"unitPrice"`
	ServiceCharge float64    `json:"serviceCharge"`
	TotalPrice    float64    `json:"totalPrice"`
	PurchaseDate  time.Time  `json:"purchaseDate"`
	Status        string     `json:"status"`
	EmailSent     bool       `json:"emailSent"`
	EmailSentAt   *time.Time `json:"emailSentAt,omitempty"`
	QRCodeData    *string    `json:"qrCodeData,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type Ticket struct {
	ID           int        `json:"id"`
	PurchaseID   int        `json:"purchaseId"`
	TicketNumber string     `json:"ticketNumber"`
	QRCodeData   string     `json:"qrCodeData"`
	IsUsed       bool       `json:"isUsed"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type EmailLog struct {
	ID             int       `json:"id"`
	PurchaseID     int       `json:"purchaseId"`
	EmailType      string    `json:"emailType"`
	RecipientEmail string    `json:"recipientEmail"`
	Subject        string    `json:"subject"`
	Status         string    `json:"status"`
	ErrorMessage   *string   `json:"errorMessage,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}

// Sales report types

type SalesReport struct {
	Summary    SalesSummary             `json:"summary"`
	ByEvent    map[string]EventSales    `json:"byEvent"`
	ByCategory map[string]CategorySales `json:"byCategory"`
}

type SalesSummary struct {
	TotalSales    float64 `json:"totalSales"`
	TotalTickets  int     `json:"totalTickets"`
	AverageSale   float64 `json:"averageSale"`
	PurchaseCount int     `json:"purchaseCount"`
}

type EventSales struct {
	TotalSales   float64 `json:"totalSales"`
	TotalTickets int     `json:"totalTickets"`
}

type CategorySales struct {
	TicketsSold  int     `json:"ticketsSold"`
	TotalSales   float64 `json:"totalSales"`
	AveragePrice float64 `json:"averagePrice"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
