package community

type Province struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

var Provinces = []Province{
	{"gauteng", "Gauteng"},
	{"western-cape", "Western Cape"},
	{"eastern-cape", "Eastern Cape"},
	{"kwazulu-natal", "KwaZulu-Natal"},
	{"free-state", "Free State"},
	{"north-west", "North West"},
	{"mpumalanga", "Mpumalanga"},
	{"limpopo", "Limpopo"},
	{"northern-cape", "Northern Cape"},
}

func ValidProvince(slug string) bool {
	for _, p := range Provinces {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

// Los tipos llevan tags JSON porque viajan por el cache (Redis) tal cual.

type Facility struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Province   string   `json:"province"`
	DistanceKm float64  `json:"distance_km"`
	Address    string   `json:"address"`
	Phone      string   `json:"phone"`
	Hours      string   `json:"hours"`
	Services   []string `json:"services"`
}

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Province    string `json:"province"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"`
	Location    string `json:"location"`
	Organizer   string `json:"organizer"`
	Description string `json:"description"`
}

type SupportGroup struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MeetingDay    string `json:"meeting_day"`
	Time          string `json:"time"`
	Location      string `json:"location"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	WhatsAppGroup bool   `json:"whatsapp_group"`
}
