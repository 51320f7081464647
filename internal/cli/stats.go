package cli

import (
	"fmt"
	"strings"

	"hiring_backend/internal/config"
	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services/dto"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	cellStyle = lipgloss.NewStyle().Width(24)
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print hiring pipeline statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, application, err := openApplication(config.AppConfig)
		if err != nil {
			return err
		}
		defer application.Close()

		db = db.WithContext(cmd.Context())
		stats, err := application.Services.BoardService.GetStats(db)
		if err != nil {
			return err
		}
		staff, err := repositories.NewUserRepository().CountByDesignation(db)
		if err != nil {
			return err
		}
		fmt.Print(renderStats(stats, staff))
		return nil
	},
}

func renderStats(stats *dto.BoardStats, staff map[models.Designation]int64) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Hiring Pipeline"))
	b.WriteString("\n")
	b.WriteString(row("Candidates", stats.TotalCandidates))
	b.WriteString(row("Assignments", stats.TotalAssignments))

	b.WriteString("\n" + labelStyle.Render("Candidate statuses") + "\n")
	for _, status := range models.CandidateStatuses() {
		b.WriteString(row(string(status), stats.CandidateStatusCounts[string(status)]))
	}

	b.WriteString("\n" + labelStyle.Render("Assignment statuses") + "\n")
	for _, status := range models.AssignmentStatuses() {
		b.WriteString(row(string(status), stats.AssignmentStatusCounts[string(status)]))
	}

	b.WriteString("\n" + labelStyle.Render("Staff") + "\n")
	for _, d := range models.Designations() {
		b.WriteString(row(string(d), staff[d]))
	}

	b.WriteString("\n" + labelStyle.Render("Reviews") + "\n")
	b.WriteString(row("Technical rating", stats.Ratings.WithTechnicalRating))
	b.WriteString(row("HR rating", stats.Ratings.WithHRRating))
	b.WriteString(row("HR review", stats.Ratings.WithHRReview))
	b.WriteString(row("Manager feedback", stats.Ratings.WithManagerFeedback))
	return b.String()
}

func row(label string, value int64) string {
	return "  " + cellStyle.Render(label) + valueStyle.Render(fmt.Sprint(value)) + "\n"
}
