package services

import (
	"context"
	"fmt"

	"pillflow-backend/models"
	"pillflow-backend/store"
	"pillflow-backend/utils"
)

type DashboardService struct {
	*deps
	packChecks *PackCheckService
}

type DashboardStats struct {
	TotalCustomers    int                           `json:"totalCustomers"`
	CustomersByStatus map[models.CustomerStatus]int `json:"customersByStatus"`
	ActiveTeamMembers int                           `json:"activeTeamMembers"`
	ActiveMedications int64                         `json:"activeMedications"`
	PackChecksToday   int                           `json:"packChecksToday"`
	AwaitingDelivery  int                           `json:"awaitingDelivery"`
	DeliveredToday    int                           `json:"deliveredToday"`
}

// Get counts the caller's records. "Today" starts at local midnight.
func (s *DashboardService) Get(ctx context.Context) (*DashboardStats, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	today := utils.BeginningOfDay(s.now())

	stats := &DashboardStats{
		CustomersByStatus: map[models.CustomerStatus]int{
			models.CustomerActive:     0,
			models.CustomerInHospital: 0,
			models.CustomerDisabled:   0,
		},
	}

	customers, err := s.store.ListCustomersByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	stats.TotalCustomers = len(customers)
	for _, c := range customers {
		stats.CustomersByStatus[c.Status]++
	}

	members, err := s.store.ListTeamMembersByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count team members: %w", err)
	}
	for _, m := range members {
		if m.IsActive {
			stats.ActiveTeamMembers++
		}
	}

	if stats.ActiveMedications, err = s.store.CountActiveMedications(ctx, userID); err != nil {
		return nil, fmt.Errorf("count medications: %w", err)
	}

	if stats.PackChecksToday, err = s.packChecks.CountSince(ctx, userID, today); err != nil {
		return nil, err
	}

	awaiting, err := s.store.ListScanOuts(ctx, store.ScanOutFilter{OwnerUserID: userID, Status: models.ScannedOut})
	if err != nil {
		return nil, fmt.Errorf("count scan outs: %w", err)
	}
	stats.AwaitingDelivery = len(awaiting)

	delivered, err := s.store.ListScanOuts(ctx, store.ScanOutFilter{OwnerUserID: userID, Status: models.Delivered, UpdatedSince: today})
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	stats.DeliveredToday = len(delivered)

	return stats, nil
}
