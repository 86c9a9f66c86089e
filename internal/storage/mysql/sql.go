package mysql

// -----------------------------------------------------------------------------
// ELIGIBILITY READS
// -----------------------------------------------------------------------------

const findEnrollmentByUserSQL = `
SELECT id, user_id, name, cpf, phone, created_at, updated_at
FROM enrollments
WHERE user_id = ?
`

// Latest ticket of the enrollment, joined with its type.
const findTicketByEnrollmentSQL = `
SELECT
  t.id,
  t.enrollment_id,
  t.status,
  t.created_at,
  t.updated_at,
  tt.id,
  tt.name,
  tt.price,
  tt.is_remote,
  tt.includes_hotel
FROM tickets t
JOIN ticket_types tt ON tt.id = t.ticket_type_id
WHERE t.enrollment_id = ?
ORDER BY t.id DESC
LIMIT 1
`

// -----------------------------------------------------------------------------
// BOOKING READS
// -----------------------------------------------------------------------------

// Looked up by owner, never by the booking's own primary key.
const findBookingByUserSQL = `
SELECT
  b.id,
  r.id,
  r.name,
  r.capacity,
  r.hotel_id,
  r.created_at,
  r.updated_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE b.user_id = ?
`

const findBookingByIDSQL = `
SELECT id, user_id, room_id, created_at, updated_at
FROM bookings
WHERE id = ?
`

const hotelExistsSQL = `SELECT 1 FROM hotels WHERE id = ?`

const listRoomsSQL = `
SELECT
  r.id,
  r.name,
  r.capacity,
  r.hotel_id,
  r.created_at,
  r.updated_at,
  COUNT(b.id) AS booked
FROM rooms r
LEFT JOIN bookings b ON b.room_id = r.id
WHERE r.hotel_id = ?
GROUP BY r.id, r.name, r.capacity, r.hotel_id, r.created_at, r.updated_at
ORDER BY r.id
`

// -----------------------------------------------------------------------------
// WRITES (run inside a transaction)
// -----------------------------------------------------------------------------

// Locks the room row so concurrent bookings for the same room serialize on it.
const lockRoomSQL = `SELECT capacity FROM rooms WHERE id = ? FOR UPDATE`

const countRoomBookingsSQL = `SELECT COUNT(*) FROM bookings WHERE room_id = ?`

const insertBookingSQL = `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`

const lockBookingSQL = `
SELECT id, user_id, room_id, created_at, updated_at
FROM bookings
WHERE id = ?
FOR UPDATE
`

const moveBookingSQL = `UPDATE bookings SET room_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

// -----------------------------------------------------------------------------
// SESSIONS
// -----------------------------------------------------------------------------

const findSessionByTokenSQL = `
SELECT id, user_id, token
FROM sessions
WHERE token = ?
ORDER BY id DESC
LIMIT 1
`
