package domain

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Label is the short calendar tag for the customer: the first two characters
// of the name.
func (c *Customer) Label() string {
	r := []rune(c.Name)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
