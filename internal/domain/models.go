package domain

// Triad groups stations by center of intelligence.
type Triad string

const (
	TriadMental      Triad = "mental"
	TriadEmotional   Triad = "emotional"
	TriadInstinctive Triad = "instinctive"
)

// Triads lists the triads in display order.
var Triads = []Triad{TriadMental, TriadEmotional, TriadInstinctive}

// Palette holds the presentation colors of a station.
type Palette struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Tertiary  string `json:"tertiary" yaml:"tertiary"`
	Accent    string `json:"accent" yaml:"accent"`
	Text      string `json:"text" yaml:"text"`
}

// Wings are the two neighbouring stations on the circle.
type Wings struct {
	Left  int `json:"left" yaml:"left"`
	Right int `json:"right" yaml:"right"`
}

// Arrows are the integration and disintegration lines of a station.
type Arrows struct {
	Integration    int `json:"integration" yaml:"integration"`
	Disintegration int `json:"disintegration" yaml:"disintegration"`
}

// Station is one of the classification buckets the orientation test recommends.
type Station struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Slug        string  `json:"slug" yaml:"slug"`
	Enneatype   int     `json:"enneatype" yaml:"enneatype"`
	Essence     string  `json:"essence" yaml:"essence"`
	Description string  `json:"description" yaml:"description"`
	Colors      Palette `json:"colors" yaml:"colors"`
	Icon        string  `json:"icon" yaml:"icon"`
	Wings       Wings   `json:"wings" yaml:"wings"`
	Arrows      Arrows  `json:"arrows" yaml:"arrows"`
	Triad       Triad   `json:"triad" yaml:"triad"`
}

// Option is a selectable answer; it contributes to every listed station.
type Option struct {
	Label    string `json:"label" yaml:"label"`
	Stations []int  `json:"stations" yaml:"stations"`
}

// Question is a prompt with ordered options.
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []Option `json:"options" yaml:"options"`
}

// AnswerRecord is the station set implied by the option picked for one
// question. A nil or empty record means the question was not answered.
type AnswerRecord []int

// Answered reports whether the record holds at least one station.
func (a AnswerRecord) Answered() bool {
	return len(a) > 0
}

// RankedStation is a scoring result resolved to its station.
type RankedStation struct {
	Station Station `json:"station"`
	Count   int     `json:"count"`
}

// ResourceKind is the media type of a free resource.
type ResourceKind string

const (
	ResourcePDF     ResourceKind = "pdf"
	ResourceVideo   ResourceKind = "video"
	ResourceAudio   ResourceKind = "audio"
	ResourceArticle ResourceKind = "article"
)

// Resource is a free material linked to a station.
type Resource struct {
	ID          int          `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Kind        ResourceKind `json:"kind" yaml:"kind"`
	Station     int          `json:"station" yaml:"station"`
	Description string       `json:"description" yaml:"description"`
	Tags        []string     `json:"tags" yaml:"tags"`
}

// Modality says where an event takes place.
type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityInPerson Modality = "in_person"
)

// Event is a scheduled workshop for a station.
type Event struct {
	ID       int      `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Station  int      `json:"station" yaml:"station"`
	Date     string   `json:"date" yaml:"date"`
	Time     string   `json:"time" yaml:"time"`
	Duration string   `json:"duration" yaml:"duration"`
	Modality Modality `json:"modality" yaml:"modality"`
	Seats    int      `json:"seats" yaml:"seats"`
	Price    string   `json:"price" yaml:"price"`
	Featured bool     `json:"featured" yaml:"featured"`
}

// Testimonial is a community quote shown in the carousel.
type Testimonial struct {
	ID     int    `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"`
	Type   string `json:"type" yaml:"type"`
	Role   string `json:"role" yaml:"role"`
}

// CommunityGroup is a per-station community circle.
type CommunityGroup struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Stat is a headline number in the community section.
type Stat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Hero is the copy at the top of the page.
type Hero struct {
	Badge    string `json:"badge" yaml:"badge"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	Tagline  string `json:"tagline" yaml:"tagline"`
}

// Manifesto is the copy of the manifesto section.
type Manifesto struct {
	Title string   `json:"title" yaml:"title"`
	Quote string   `json:"quote" yaml:"quote"`
	Body  []string `json:"body" yaml:"body"`
}

// Dataset is the immutable content the site is rendered and scored from.
type Dataset struct {
	ID           string           `json:"id" yaml:"id"`
	Hero         Hero             `json:"hero" yaml:"hero"`
	Manifesto    Manifesto        `json:"manifesto" yaml:"manifesto"`
	Stations     []Station        `json:"stations" yaml:"stations"`
	Questions    []Question       `json:"questions" yaml:"questions"`
	Resources    []Resource       `json:"resources" yaml:"resources"`
	Events       []Event          `json:"events" yaml:"events"`
	Testimonials []Testimonial    `json:"testimonials" yaml:"testimonials"`
	Groups       []CommunityGroup `json:"groups" yaml:"groups"`
	Stats        []Stat           `json:"stats" yaml:"stats"`
}

// Contact is a side-channel notification for an email left on the site.
type Contact struct {
	Email     string `json:"email"`
	Source    string `json:"source"`
	SessionID string `json:"sessionId,omitempty"`
	Stations  []int  `json:"stations,omitempty"`
}
