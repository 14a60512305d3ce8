package models

// ReservationNoOverlapDDL rejects two confirmed reservations of one room with
// intersecting [check_in, check_out) intervals. Requires btree_gist.
const ReservationNoOverlapDDL = `ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
	EXCLUDE USING gist (room_id WITH =, tstzrange(check_in, check_out, '[)') WITH &&)
	WHERE (confirmed)`
