package report

// Categories with a dedicated rendering branch in the announce template.
const (
	CategoryDisabledViews     = "Disabled views"
	CategoryOverriddenViews   = "Overridden views"
	CategoryFiltersDashboards = "Filters/Dashboards"
)

// ViewRef points at a UI view affected by the upgrade. CopyID is non-zero
// when a backup copy of the view was made before it was touched.
type ViewRef struct {
	ID     int64  `yaml:"id"`
	Name   string `yaml:"name"`
	CopyID int64  `yaml:"copyId,omitempty"`
	Action string `yaml:"action"`
}

// RecordRef points at an arbitrary record by model and id.
type RecordRef struct {
	Model string `yaml:"model"`
	ID    int64  `yaml:"id"`
	Label string `yaml:"label"`
}

// Message is one entry of a report category. Exactly one of View, Record or
// Text is expected to be set; which one is dictated by the category the
// message is filed under. The producer is trusted, no shape check is done
// here. A mismatch surfaces when the template is executed.
type Message struct {
	View   *ViewRef
	Record *RecordRef
	Text   string
	Raw    bool
}

// Category is a named, ordered list of messages.
type Category struct {
	Name     string
	Messages []Message
}

// Report is the upgrade report payload: a major-version label and the
// categories in first-insertion order.
type Report struct {
	Version    string
	categories []*Category
	index      map[string]*Category
}

// New creates an empty report for the given target version.
func New(version string) *Report {
	return &Report{
		Version: version,
		index:   make(map[string]*Category),
	}
}

// EnsureCategory returns the named category, registering an empty one when
// it does not exist yet. An empty category still renders its heading and an
// empty list.
func (r *Report) EnsureCategory(name string) *Category {
	c, ok := r.index[name]
	if !ok {
		c = &Category{Name: name}
		r.index[name] = c
		r.categories = append(r.categories, c)
	}
	return c
}

// Add appends a message to the named category, creating the category on
// first use. Category order is the order of first Add calls, message order
// is append order.
func (r *Report) Add(category string, msg Message) {
	c := r.EnsureCategory(category)
	c.Messages = append(c.Messages, msg)
}

// AddView files a view reference under the given category.
func (r *Report) AddView(category string, view ViewRef) {
	r.Add(category, Message{View: &view})
}

// AddRecord files a record reference under the Filters/Dashboards category.
func (r *Report) AddRecord(category string, record RecordRef) {
	r.Add(category, Message{Record: &record})
}

// AddText files a text message; raw messages are inserted into the rendered
// markup unescaped.
func (r *Report) AddText(category, text string, raw bool) {
	r.Add(category, Message{Text: text, Raw: raw})
}

// Categories returns the categories in first-insertion order.
func (r *Report) Categories() []*Category {
	return r.categories
}

// Category returns the named category, or nil when nothing was filed under
// that name.
func (r *Report) Category(name string) *Category {
	return r.index[name]
}

// Empty reports whether no message was collected at all.
func (r *Report) Empty() bool {
	return len(r.categories) == 0
}
