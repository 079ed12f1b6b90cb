package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Open the comment thread of the selected activity
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	Help    key.Binding
	Refresh key.Binding

	// Feed filters
	NextFilter          key.Binding
	PrevFilter          key.Binding
	FilterAll           key.Binding
	FilterFollowing     key.Binding
	FilterNotifications key.Binding
	FilterSaved         key.Binding

	// Activity actions
	Like    key.Binding
	Save    key.Binding
	Comment key.Binding
	Rate    key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Follow  key.Binding
	NewPost key.Binding

	// Thread actions
	Reply       key.Binding
	LikeComment key.Binding

	MarkRead key.Binding
	Logout   key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open comments"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next feed"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous feed"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		FilterFollowing: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "following"),
		),
		FilterNotifications: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "notifications"),
		),
		FilterSaved: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "saved"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Rate: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "rate"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow author"),
		),
		NewPost: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new post"),
		),
		Reply: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reply"),
		),
		LikeComment: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "like comment"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark all read"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "log out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.NextFilter,
		k.Like, k.Comment, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit, k.Help},
		{k.NextFilter, k.PrevFilter, k.FilterAll, k.FilterFollowing, k.FilterNotifications, k.FilterSaved, k.Refresh},
		{k.Like, k.Save, k.Comment, k.Rate, k.Edit, k.Delete, k.Follow, k.NewPost},
		{k.Reply, k.LikeComment, k.MarkRead, k.Logout},
	}
}
