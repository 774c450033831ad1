package checkout

// Prefill builds the shipping form from the draft, falling back field by
// field to the customer's profile defaults.
func Prefill(draft, defaults *ShippingInfo) ShippingInfo {
	var out ShippingInfo
	if defaults != nil {
		out = *defaults
	}
	if draft == nil {
		return out
	}

	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.Name, draft.Name)
	pick(&out.Phone, draft.Phone)
	pick(&out.Address, draft.Address)
	pick(&out.City, draft.City)
	pick(&out.PostalCode, draft.PostalCode)
	pick(&out.Note, draft.Note)
	pick(&out.ShippingMethod, draft.ShippingMethod)
	if draft.ShippingMethod != "" {
		out.ShippingFee = draft.ShippingFee
	}
	return out
}
