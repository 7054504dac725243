package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dmitrijs2005/gophblog/internal/client/feedview"
	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/client/profileform"
)

const (
	defaultWidth = 80
	maxWidth     = 120

	publishedLayout = "02/01/2006"

	// SavedMessage is shown after a successful save.
	SavedMessage = "Your data has been saved successfully."
)

// terminalSize and isTerminal are test seams for golang.org/x/term.
var (
	terminalSize = term.GetSize
	isTerminal   = term.IsTerminal
)

// terminalWidth returns the stdout width, or defaultWidth when stdout is not
// a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !isTerminal(fd) {
		return defaultWidth
	}
	w, _, err := terminalSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return min(w, maxWidth)
}

var fieldLabels = map[profileform.Field]string{
	profileform.FieldFirstName: "First name",
	profileform.FieldLastName:  "Last name",
	profileform.FieldEmail:     "Email",
	profileform.FieldBirthDate: "Birth date",
	profileform.FieldAge:       "Age",
}

// RenderHome renders the home route.
func RenderHome(width int) string {
	var b strings.Builder
	b.WriteString(title("Save Data", width))
	b.WriteString("Use 'profile' to edit your data or 'publications' to read the feed.\n")
	return b.String()
}

// RenderProfile renders the profile form and, when present, the
// confirmation dialog.
func RenderProfile(v profileform.View, width int) string {
	var b strings.Builder
	b.WriteString(title("Profile", width))

	for _, f := range profileform.Fields {
		value, _ := v.Form.Get(f)
		fmt.Fprintf(&b, "%-11s %s\n", fieldLabels[f]+":", value)
	}

	if v.Dirty {
		b.WriteString("\n(unsaved changes)\n")
	}
	if v.ExternalPending {
		b.WriteString("(the stored profile changed; 'revert' to load it)\n")
	}
	if v.Confirmation != nil {
		b.WriteString("\n")
		b.WriteString(RenderConfirmation(*v.Confirmation))
	}
	return b.String()
}

// RenderConfirmation renders the dialog shown after a submit.
func RenderConfirmation(c profileform.Confirmation) string {
	if c.Succeeded() {
		return SavedMessage + "\nType 'ok' to continue.\n"
	}
	return fmt.Sprintf("Your data could not be saved: %v\nType 'ok' to continue.\n", c.Err)
}

// RenderFeed renders the user information block followed by the posts.
// Publication dates are shown in loc.
func RenderFeed(m feedview.Model, loc *time.Location, width int) string {
	var b strings.Builder
	b.WriteString(title("User Information", width))
	b.WriteString(renderUserInfo(m.Profile))

	b.WriteString("\n")
	b.WriteString(title("Publications", width))

	switch {
	case !m.PostsLoaded:
		b.WriteString("Loading...\n")
		return b.String()
	case m.FeedErr != nil:
		fmt.Fprintf(&b, "Publications are unavailable: %v\n", m.FeedErr)
		return b.String()
	case len(m.Posts) == 0:
		b.WriteString("No publications yet.\n")
		return b.String()
	}

	sep := strings.Repeat("-", width)
	for i, p := range m.Posts {
		if i > 0 {
			b.WriteString(sep + "\n")
		}
		b.WriteString(RenderPost(p, loc))
	}
	return b.String()
}

func renderUserInfo(p models.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "First name: %s\n", p.FirstName)
	fmt.Fprintf(&b, "Last name:  %s\n", p.LastName)
	fmt.Fprintf(&b, "Email:      %s\n", p.Email)
	fmt.Fprintf(&b, "Birth date: %s\n", p.BirthDate)
	fmt.Fprintf(&b, "Age:        %d\n", p.Age)
	return b.String()
}

// RenderPost renders one post: text, image and download links when present,
// and the publication date.
func RenderPost(p models.Post, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(p.Text + "\n")
	if p.HasImage() {
		fmt.Fprintf(&b, "Image: %s\n", p.ImageURL)
	}
	if p.HasFile() {
		fmt.Fprintf(&b, "Download file: %s\n", p.FileURL)
	}
	fmt.Fprintf(&b, "Published: %s\n", time.UnixMilli(p.Timestamp).In(loc).Format(publishedLayout))
	return b.String()
}

var titleStyle = lipgloss.NewStyle().Bold(true)

func title(s string, width int) string {
	return titleStyle.Render(s) + "\n" + strings.Repeat("=", min(lipgloss.Width(s), width)) + "\n"
}
