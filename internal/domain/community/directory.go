package community

import "context"

// Directory es la fuente de datos del directorio. Hoy es estática;
// un proveedor externo implementaría la misma interfaz.
type Directory interface {
	Facilities(ctx context.Context, province string) ([]Facility, error)
	Events(ctx context.Context, province string) ([]Event, error)
	SupportGroups(ctx context.Context) ([]SupportGroup, error)
}

type staticDirectory struct{}

func StaticDirectory() Directory { return staticDirectory{} }

func (staticDirectory) Facilities(_ context.Context, province string) ([]Facility, error) {
	out := []Facility{}
	for _, f := range facilities {
		if f.Province == province {
			f.Services = append([]string(nil), f.Services...)
			out = append(out, f)
		}
	}
	return out, nil
}

func (staticDirectory) Events(_ context.Context, province string) ([]Event, error) {
	out := []Event{}
	for _, e := range events {
		if e.Province == province {
			out = append(out, e)
		}
	}
	return out, nil
}

func (staticDirectory) SupportGroups(context.Context) ([]SupportGroup, error) {
	return append([]SupportGroup(nil), groups...), nil
}

var facilities = []Facility{
	{
		ID:         "soweto-community-clinic",
		Name:       "Soweto Community Clinic",
		Type:       "Primary Healthcare",
		Province:   "gauteng",
		DistanceKm: 2.3,
		Address:    "123 Vilakazi St, Orlando West, Soweto",
		Phone:      "011 123 4567",
		Hours:      "Mon-Fri: 8am-5pm",
		Services:   []string{"Vaccinations", "HIV Testing", "Maternal Care"},
	},
	{
		ID:         "alexandra-health-centre",
		Name:       "Alexandra Health Centre",
		Type:       "Community Hospital",
		Province:   "gauteng",
		DistanceKm: 5.7,
		Address:    "45 12th Avenue, Alexandra",
		Phone:      "011 346 7890",
		Hours:      "24/7",
		Services:   []string{"Emergency Care", "Pediatrics", "General Medicine"},
	},
	{
		ID:         "diepsloot-clinic",
		Name:       "Diepsloot Clinic",
		Type:       "Primary Healthcare",
		Province:   "gauteng",
		DistanceKm: 8.1,
		Address:    "78 Main Road, Diepsloot",
		Phone:      "011 567 8901",
		Hours:      "Mon-Fri: 7am-4pm, Sat: 8am-12pm",
		Services:   []string{"TB Treatment", "Family Planning", "Child Health"},
	},
}

var events = []Event{
	{
		ID:          "free-diabetes-screening",
		Title:       "Free Diabetes Screening",
		Province:    "gauteng",
		Date:        "2025-06-15",
		Time:        "9:00 AM - 3:00 PM",
		Location:    "Soweto Community Hall",
		Organizer:   "Department of Health",
		Description: "Free diabetes screening and education session for all community members.",
	},
	{
		ID:          "maternal-health-workshop",
		Title:       "Maternal Health Workshop",
		Province:    "gauteng",
		Date:        "2025-06-22",
		Time:        "10:00 AM - 12:00 PM",
		Location:    "Alexandra Health Centre",
		Organizer:   "Mothers2Mothers",
		Description: "Workshop for expectant mothers about prenatal care and nutrition.",
	},
	{
		ID:          "covid-19-vaccination-drive",
		Title:       "COVID-19 Vaccination Drive",
		Province:    "gauteng",
		Date:        "2025-06-30",
		Time:        "8:00 AM - 4:00 PM",
		Location:    "Various Community Clinics",
		Organizer:   "National Department of Health",
		Description: "COVID-19 vaccination for all eligible community members.",
	},
}

var groups = []SupportGroup{
	{
		ID:            "dementia-caregivers-support",
		Name:          "Dementia Caregivers Support",
		MeetingDay:    "Every Tuesday",
		Time:          "5:30 PM - 7:00 PM",
		Location:      "Braamfontein Community Centre",
		ContactPerson: "Sarah Nkosi",
		Phone:         "082 123 4567",
		WhatsAppGroup: true,
	},
	{
		ID:            "stroke-survivors",
		Name:          "Stroke Survivors",
		MeetingDay:    "First Saturday of the month",
		Time:          "10:00 AM - 11:30 AM",
		Location:      "Sandton Clinic",
		ContactPerson: "John Dube",
		Phone:         "083 456 7890",
		WhatsAppGroup: true,
	},
	{
		ID:            "family-caregivers-network",
		Name:          "Family Caregivers Network",
		MeetingDay:    "Every Thursday",
		Time:          "6:00 PM - 7:30 PM",
		Location:      "Online via Zoom",
		ContactPerson: "Thandi Mkhize",
		Phone:         "084 789 0123",
		WhatsAppGroup: true,
	},
}
