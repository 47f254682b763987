package service

import (
	"context"
	"sort"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/repository"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultTopN          = 5
	DefaultRecentDonated = 5
)

// amountPrinter formats soles as "S/ 1,234.00"
var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders an amount in soles
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("S/ %.2f", v)
}

// StatusCounts counts events per lifecycle status
type StatusCounts struct {
	Draft     int `json:"draft"`
	Published int `json:"published"`
	Archived  int `json:"archived"`
}

// EventSummary is one row of the top-N table
type EventSummary struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Goal     float64 `json:"goal"`
	Raised   float64 `json:"raised"`
	Donors   int     `json:"donors"`
	Progress int     `json:"progress"`
}

// CreatorDashboard summarizes a promoter's events
type CreatorDashboard struct {
	TotalEvents     int               `json:"total_events"`
	ByStatus        StatusCounts      `json:"by_status"`
	TotalGoal       float64           `json:"total_goal"`
	TotalRaised     float64           `json:"total_raised"`
	TotalDonors     int               `json:"total_donors"`
	AverageProgress int               `json:"average_progress"`
	FeaturedCount   int               `json:"featured_count"`
	TopEvents       []*EventSummary   `json:"top_events"`
	Formatted       map[string]string `json:"formatted"`
}

// EventAnalytics summarizes a single event
type EventAnalytics struct {
	Event           EventSummary      `json:"event"`
	Remaining       float64           `json:"remaining"`
	AverageDonation float64           `json:"average_donation"`
	DaysLeft        *int              `json:"days_left,omitempty"`
	LedgerCount     int               `json:"ledger_count"`
	LedgerTotal     float64           `json:"ledger_total"`
	Formatted       map[string]string `json:"formatted"`
}

// DonorDashboard summarizes a donor's giving
type DonorDashboard struct {
	DonationCount   int                `json:"donation_count"`
	TotalDonated    float64            `json:"total_donated"`
	EventsSupported int                `json:"events_supported"`
	Recent          []*domain.Donation `json:"recent"`
	Formatted       map[string]string  `json:"formatted"`
}

// dashboardService implements DashboardService
type dashboardService struct {
	eventRepo    repository.EventRepository
	donationRepo repository.DonationRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(eventRepo repository.EventRepository, donationRepo repository.DonationRepository) DashboardService {
	return &dashboardService{eventRepo: eventRepo, donationRepo: donationRepo}
}

// Creator summarizes a promoter's events
func (s *dashboardService) Creator(ctx context.Context, userID string, topN int) (*CreatorDashboard, error) {
	events, err := s.eventRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SummarizeCreator(events, topN), nil
}

// EventAnalytics summarizes one owned event with its ledger
func (s *dashboardService) EventAnalytics(ctx context.Context, eventID, userID string) (*EventAnalytics, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}

	donations, err := s.donationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return AnalyzeEvent(event, donations), nil
}

// Donor summarizes a donor's giving
func (s *dashboardService) Donor(ctx context.Context, donorID string, recent int) (*DonorDashboard, error) {
	donations, err := s.donationRepo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	return SummarizeDonor(donations, recent), nil
}

// SummarizeCreator reduces a promoter's events to dashboard totals
func SummarizeCreator(events []*domain.Event, topN int) *CreatorDashboard {
	if topN <= 0 {
		topN = DefaultTopN
	}

	d := &CreatorDashboard{TotalEvents: len(events), TopEvents: []*EventSummary{}}
	progressSum := 0
	for _, e := range events {
		switch e.Status {
		case domain.EventStatusDraft:
			d.ByStatus.Draft++
		case domain.EventStatusPublished:
			d.ByStatus.Published++
		case domain.EventStatusArchived:
			d.ByStatus.Archived++
		}
		d.TotalGoal += e.Goal
		d.TotalRaised += e.Raised
		d.TotalDonors += e.Donors
		progressSum += e.Progress()
		if e.IsFeatured {
			d.FeaturedCount++
		}
	}
	if len(events) > 0 {
		d.AverageProgress = progressSum / len(events)
	}

	sorted := make([]*domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Raised > sorted[j].Raised
	})
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	for _, e := range sorted {
		d.TopEvents = append(d.TopEvents, summarize(e))
	}

	d.Formatted = map[string]string{
		"total_goal":   FormatAmount(d.TotalGoal),
		"total_raised": FormatAmount(d.TotalRaised),
	}
	return d
}

// AnalyzeEvent derives per-event figures. Average donation uses the
// event's own raised/donors columns; the ledger figures are reported apart.
func AnalyzeEvent(e *domain.Event, donations []*domain.Donation) *EventAnalytics {
	a := &EventAnalytics{
		Event:     *summarize(e),
		Remaining: e.Remaining(),
		DaysLeft:  e.DaysLeft,
	}
	if e.Donors > 0 {
		a.AverageDonation = e.Raised / float64(e.Donors)
	}
	for _, d := range donations {
		if d.Status == domain.DonationStatusSucceeded {
			a.LedgerCount++
			a.LedgerTotal += d.Amount
		}
	}
	a.Formatted = map[string]string{
		"goal":             FormatAmount(e.Goal),
		"raised":           FormatAmount(e.Raised),
		"remaining":        FormatAmount(a.Remaining),
		"average_donation": FormatAmount(a.AverageDonation),
	}
	return a
}

// SummarizeDonor counts only succeeded donations
func SummarizeDonor(donations []*domain.Donation, recent int) *DonorDashboard {
	if recent <= 0 {
		recent = DefaultRecentDonated
	}

	d := &DonorDashboard{Recent: []*domain.Donation{}}
	events := map[string]struct{}{}
	for _, dn := range donations {
		if dn.Status != domain.DonationStatusSucceeded {
			continue
		}
		d.DonationCount++
		d.TotalDonated += dn.Amount
		events[dn.EventID] = struct{}{}
		if len(d.Recent) < recent {
			d.Recent = append(d.Recent, dn)
		}
	}
	d.EventsSupported = len(events)
	d.Formatted = map[string]string{"total_donated": FormatAmount(d.TotalDonated)}
	return d
}

func summarize(e *domain.Event) *EventSummary {
	return &EventSummary{
		ID:       e.ID,
		Slug:     e.Slug,
		Title:    e.Title,
		Status:   string(e.Status),
		Goal:     e.Goal,
		Raised:   e.Raised,
		Donors:   e.Donors,
		Progress: e.Progress(),
	}
}
