package domain

type Employee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (e Employee) String() string {
	return "Employee Details {ID: " + e.ID + ", Name: " + e.Name + ", Address: " + e.Address + ", Phone: " + e.Phone + "}"
}
