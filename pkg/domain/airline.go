package domain

type AirlineDetail struct {
	Callsign string `json:"callsign"`
	Name     string `json:"name"`
	Country  string `json:"country"`
}

func (a AirlineDetail) String() string {
	return "Airline Details {Name: " + a.Name + ", Callsign: " + a.Callsign + ", Country: " + a.Country + "}"
}
