// Package trip holds the client-side trip model: the editable draft, the form
// state holder that owns it, and the wire types exchanged with the ledger API.
//
// A draft keeps raw user input as strings. Numbers only appear when a draft is
// normalized into a Request at submission time:
//
//	form := trip.NewForm()
//	_ = form.UpdateField(trip.FieldUserName, " Alex ")
//	_ = form.UpdateField(trip.FieldStartKM, "12345")
//	_ = form.UpdateField(trip.FieldEndKM, "12399")
//
//	req := trip.Normalize(form.Draft())
//	// req.UserName == "Alex", req.StartKM == 12345, req.EndKM == 12399
//
// Normalize performs no range or ordering checks. Text that does not parse
// becomes NaN and is sent as JSON null; the server owns every business rule.
package trip
