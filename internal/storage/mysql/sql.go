package mysql

// -----------------------------------------------------------------------------
// SERVICES
// -----------------------------------------------------------------------------

const selectServiceCols = `SELECT id, title, description, icon, features, created_at FROM services`

const listServicesSQL = selectServiceCols + ` ORDER BY id`

const getServiceSQL = selectServiceCols + ` WHERE id = ?`

const insertServiceSQL = `
INSERT INTO services (title, description, icon, features)
VALUES (?, ?, ?, ?)
`

const updateServiceSQL = `
UPDATE services
SET title = ?, description = ?, icon = ?, features = ?
WHERE id = ?
`

const deleteServiceSQL = `DELETE FROM services WHERE id = ?`

// -----------------------------------------------------------------------------
// PROJECTS
// -----------------------------------------------------------------------------

const selectProjectCols = `SELECT id, title, description, category, image_url, created_at FROM projects`

const listProjectsSQL = selectProjectCols + ` ORDER BY created_at DESC, id DESC`

const getProjectSQL = selectProjectCols + ` WHERE id = ?`

const insertProjectSQL = `
INSERT INTO projects (title, description, category, image_url)
VALUES (?, ?, ?, ?)
`

const updateProjectSQL = `
UPDATE projects
SET title = ?, description = ?, category = ?, image_url = ?
WHERE id = ?
`

const deleteProjectSQL = `DELETE FROM projects WHERE id = ?`

// -----------------------------------------------------------------------------
// TESTIMONIALS
// -----------------------------------------------------------------------------

const selectTestimonialCols = `SELECT id, name, role, email, content, rating, avatar, created_at FROM testimonials`

// Newest first; aligns with idx_testimonials_created.
const listTestimonialsSQL = selectTestimonialCols + ` ORDER BY created_at DESC, id DESC`

const getTestimonialSQL = selectTestimonialCols + ` WHERE id = ?`

const insertTestimonialSQL = `
INSERT INTO testimonials (name, role, email, content, rating, avatar)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateTestimonialSQL = `
UPDATE testimonials
SET name = ?, role = ?, email = ?, content = ?, rating = ?, avatar = ?
WHERE id = ?
`

const deleteTestimonialSQL = `DELETE FROM testimonials WHERE id = ?`

// -----------------------------------------------------------------------------
// CONTACT MESSAGES
// -----------------------------------------------------------------------------

const selectMessageCols = `SELECT id, name, email, phone, service, message, is_read, created_at FROM contact_messages`

const listMessagesSQL = selectMessageCols + ` ORDER BY created_at DESC, id DESC`

const getMessageSQL = selectMessageCols + ` WHERE id = ?`

const insertMessageSQL = `
INSERT INTO contact_messages (name, email, phone, service, message)
VALUES (?, ?, ?, ?, ?)
`

const markMessageReadSQL = `UPDATE contact_messages SET is_read = TRUE WHERE id = ?`

const deleteMessageSQL = `DELETE FROM contact_messages WHERE id = ?`
