package domain

// AppointmentOption is a treatment in the catalog together with the time
// slots it can be booked at.
type AppointmentOption struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
	Price float64  `json:"price"`
}

// Specialty is the name-only projection of an AppointmentOption.
type Specialty struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ComputeAvailability returns a copy of options where every slot already
// taken by a booking for the same treatment on date has been removed.
// Slot order is preserved and the inputs are left untouched.
func ComputeAvailability(date string, options []AppointmentOption, bookings []Booking) []AppointmentOption {
	booked := make(map[string]map[string]struct{})
	for _, b := range bookings {
		if b.AppointmentDate != date {
			continue
		}
		slots, ok := booked[b.TreatmentName]
		if !ok {
			slots = make(map[string]struct{})
			booked[b.TreatmentName] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	result := make([]AppointmentOption, 0, len(options))
	for _, opt := range options {
		taken := booked[opt.Name]
		remaining := make([]string, 0, len(opt.Slots))
		for _, slot := range opt.Slots {
			if _, ok := taken[slot]; ok {
				continue
			}
			remaining = append(remaining, slot)
		}
		opt.Slots = remaining
		result = append(result, opt)
	}
	return result
}
