package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/agent/prompts"
	"github.com/telecom-assist-poc/server/internal/store"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// Plan recommends service plans from the customer's profile, their latest
// usage record and the full plan catalog, rendered into one model call.
type Plan struct {
	deps Deps
}

func NewPlan(deps Deps) *Plan {
	return &Plan{deps: deps}
}

func (h *Plan) Name() string {
	return "plan"
}

// PlanProfile is the data slice backing one recommendation: the customer
// row, their current plan resolved against the catalog, the most recent
// usage record and the whole catalog. Any field may be nil/empty on lookup
// miss; the prompt then carries placeholder text instead.
type PlanProfile struct {
	Customer    *store.Row
	CurrentPlan *store.Row
	Usage       *store.Row
	Plans       []store.Row
}

// LoadPlanProfile assembles the profile from the store. Lookup misses and
// per-query errors degrade to missing fields; the request never fails here.
func LoadPlanProfile(ctx context.Context, s *store.Store, email string) PlanProfile {
	var profile PlanProfile

	tables, err := s.Tables(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("Plan profile: table discovery failed")
		return profile
	}
	hasTable := func(name string) bool {
		for _, t := range tables {
			if t == name {
				return true
			}
		}
		return false
	}

	if hasTable("service_plans") {
		if plans, err := s.Query(ctx, "SELECT * FROM service_plans"); err == nil {
			profile.Plans = plans
		}
	}

	if email == "" {
		return profile
	}

	rows, err := s.Query(ctx, "SELECT * FROM customers WHERE email = ? LIMIT 1", email)
	if err != nil || len(rows) == 0 {
		return profile
	}
	customer := rows[0]
	profile.Customer = &customer

	// Resolve the current plan by matching the customer's foreign key
	// against the catalog.
	if planID := customer.GetString("service_plan_id"); planID != "" {
		for i := range profile.Plans {
			if profile.Plans[i].GetString("plan_id") == planID {
				profile.CurrentPlan = &profile.Plans[i]
				break
			}
		}
	}

	if hasTable("customer_usage") {
		usageRows, err := s.Query(ctx,
			"SELECT * FROM customer_usage WHERE customer_id = ? ORDER BY billing_period_end DESC LIMIT 1",
			customer.Get("customer_id"),
		)
		if err == nil && len(usageRows) > 0 {
			profile.Usage = &usageRows[0]
		}
	}

	return profile
}

func (h *Plan) Handle(ctx context.Context, query string, customer model.Customer) string {
	if h.deps.ConfigErr != nil {
		return diagnostic("Sorry, I cannot generate plan recommendations right now.", h.deps.ConfigErr)
	}

	profile := LoadPlanProfile(ctx, h.deps.Store, customer.Email)
	currency := h.deps.Prompt.Currency

	sys, err := prompts.RenderPlanAdvisor(ctx, h.deps.Prompt)
	if err != nil {
		return diagnostic("Sorry, I had trouble generating a plan recommendation.", err)
	}

	user := fmt.Sprintf(
		"User Query:\n%s\n\nCustomer:\n%s\nUsage:\n%s\nAvailable Plans:\n%s\n\nProvide the best personalized plan/add-on recommendations.",
		query,
		formatCustomer(profile, currency),
		formatUsage(profile.Usage, currency),
		formatCatalog(profile.Plans, currency),
	)

	answer, err := h.deps.generate(ctx, h.deps.Advisory, h.deps.AdvisoryModelName, sys, user)
	if err != nil {
		return diagnostic("Sorry, I had trouble generating a plan recommendation.", err)
	}
	return answer
}

// FormatPlanLine renders one catalog row as a single prompt line.
func FormatPlanLine(p store.Row, currency string) string {
	data := "Unlimited"
	if !isTruthy(p.Get("unlimited_data")) {
		data = p.GetString("data_limit_gb") + "GB"
	}
	voice := "Unlimited"
	if !isTruthy(p.Get("unlimited_voice")) {
		voice = p.GetString("voice_minutes") + " min"
	}
	sms := "Unlimited"
	if !isTruthy(p.Get("unlimited_sms")) {
		sms = p.GetString("sms_count") + " SMS"
	}
	return fmt.Sprintf("- %s (%s): %s%s / month | %s | %s | %s",
		p.GetString("name"), p.GetString("plan_id"), currency, p.GetString("monthly_cost"),
		data, voice, sms)
}

func formatCatalog(plans []store.Row, currency string) string {
	if len(plans) == 0 {
		return "(No plans)\n"
	}
	lines := make([]string, 0, len(plans))
	for _, p := range plans {
		lines = append(lines, FormatPlanLine(p, currency))
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatCustomer(profile PlanProfile, currency string) string {
	if profile.Customer == nil || profile.CurrentPlan == nil {
		return "No customer profile available.\n"
	}
	return fmt.Sprintf(
		"Customer ID: %s\nName: %s\nCurrent Plan: %s (%s)\nMonthly Cost: %s%s\n",
		profile.Customer.GetString("customer_id"),
		profile.Customer.GetString("name"),
		profile.CurrentPlan.GetString("name"),
		profile.CurrentPlan.GetString("plan_id"),
		currency,
		profile.CurrentPlan.GetString("monthly_cost"),
	)
}

func formatUsage(usage *store.Row, currency string) string {
	if usage == nil {
		return "No usage data available.\n"
	}
	return fmt.Sprintf(
		"Billing Period: %s to %s\nLast Billing Period Usage:\n- Data: %s GB\n- Voice: %s min\n- SMS: %s\n- Total Bill Amount: %s%s\n",
		usage.GetString("billing_period_start"),
		usage.GetString("billing_period_end"),
		usage.GetString("data_used_gb"),
		usage.GetString("voice_minutes_used"),
		usage.GetString("sms_count_used"),
		currency,
		usage.GetString("total_bill_amount"),
	)
}

// isTruthy interprets SQLite's loose boolean representations.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(t) {
		case "1", "true", "t", "yes":
			return true
		}
		return false
	default:
		return false
	}
}
