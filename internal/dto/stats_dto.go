package dto

import (
	"time"

	"github.com/google/uuid"
)

type CountPair struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

type MessageCounts struct {
	Total int64 `json:"total"`
	New   int64 `json:"new"`
}

type DashboardCounts struct {
	Schools   int64         `json:"schools"`
	Users     int64         `json:"users"`
	Reviews   CountPair     `json:"reviews"`
	Inquiries CountPair     `json:"inquiries"`
	Messages  MessageCounts `json:"messages"`
}

type RecentReview struct {
	ID         uuid.UUID `json:"id"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	SchoolName string    `json:"school_name"`
	UserName   string    `json:"user_name"`
}

type RecentInquiry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	InquiryType string    `json:"inquiry_type"`
	CreatedAt   time.Time `json:"created_at"`
	SchoolName  string    `json:"school_name"`
}

type RecentActivity struct {
	Reviews   []RecentReview  `json:"reviews"`
	Inquiries []RecentInquiry `json:"inquiries"`
}

type DashboardStats struct {
	Stats  DashboardCounts `json:"stats"`
	Recent RecentActivity  `json:"recent"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page
}
