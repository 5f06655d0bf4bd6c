package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spoadmin/spoadmin/internal/models"
)

func (s *Server) studentsIn(specialtyID int) int {
	n := 0
	for _, st := range s.students {
		if st.SpecialtyID == specialtyID {
			n++
		}
	}
	return n
}

func (s *Server) specialtyWithStats(sp *models.Specialty) models.Specialty {
	out := *sp
	out.StudentsCount = s.studentsIn(sp.ID)
	out.AvailableSlots = max(0, sp.Quota-out.StudentsCount)
	return out
}

// ownSpecialty returns the specialty if it belongs to the operator's SPO; s.mu must be held
func (s *Server) ownSpecialty(u *user, id int) (*models.Specialty, bool) {
	sp, exists := s.specialties[id]
	if !exists || u.SpoID == nil || sp.SpoID != *u.SpoID {
		return nil, false
	}
	return sp, true
}

func (s *Server) listSpecialties(c *gin.Context) {
	u := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	specialties := []models.Specialty{}
	for _, id := range sortedKeys(s.specialties) {
		if sp, ok := s.ownSpecialty(u, id); ok {
			specialties = append(specialties, s.specialtyWithStats(sp))
		}
	}
	c.JSON(http.StatusOK, specialties)
}

func (s *Server) studentView(st *models.Student) models.Student {
	out := *st
	if sp, ok := s.specialties[st.SpecialtyID]; ok {
		name := sp.Name
		out.SpecialtyName = &name
		if spo, ok := s.spo[sp.SpoID]; ok {
			spoName := spo.Name
			out.SpoName = &spoName
		}
	}
	return out
}

func (s *Server) listStudents(c *gin.Context) {
	u := currentUser(c)

	var specialtyFilter *int
	if raw := c.Query("specialty_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			detail(c, http.StatusUnprocessableEntity, "specialty_id must be an integer")
			return
		}
		specialtyFilter = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if specialtyFilter != nil {
		if _, ok := s.ownSpecialty(u, *specialtyFilter); !ok {
			detail(c, http.StatusNotFound, "Specialty not found or does not belong to your SPO")
			return
		}
	}

	students := []models.Student{}
	for _, id := range sortedKeys(s.students) {
		st := s.students[id]
		if _, ok := s.ownSpecialty(u, st.SpecialtyID); !ok {
			continue
		}
		if specialtyFilter != nil && st.SpecialtyID != *specialtyFilter {
			continue
		}
		students = append(students, s.studentView(st))
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) attestatTaken(attestat string, exceptID int) bool {
	for _, st := range s.students {
		if st.AttestatNumber == attestat && st.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Server) createStudent(c *gin.Context) {
	u := currentUser(c)

	var req models.StudentInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.ownSpecialty(u, req.SpecialtyID)
	if !ok {
		detail(c, http.StatusNotFound, "Specialty not found or does not belong to your SPO")
		return
	}

	if count := s.studentsIn(sp.ID); count >= sp.Quota {
		detail(c, http.StatusBadRequest, fmt.Sprintf("Quota exceeded. Current: %d, Quota: %d", count, sp.Quota))
		return
	}

	if s.attestatTaken(req.AttestatNumber, 0) {
		detail(c, http.StatusBadRequest, "Student with this attestat number already exists")
		return
	}

	st := &models.Student{
		ID:             s.allocID(),
		SpecialtyID:    req.SpecialtyID,
		FullName:       req.FullName,
		AttestatNumber: req.AttestatNumber,
		CreatedAt:      s.now(),
	}
	s.students[st.ID] = st
	c.JSON(http.StatusCreated, st)
}

func (s *Server) updateStudent(c *gin.Context) {
	u := currentUser(c)

	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.StudentInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.students[id]
	if !exists {
		detail(c, http.StatusNotFound, "Student not found or does not belong to your SPO")
		return
	}
	if _, ok := s.ownSpecialty(u, st.SpecialtyID); !ok {
		detail(c, http.StatusNotFound, "Student not found or does not belong to your SPO")
		return
	}

	if req.SpecialtyID != st.SpecialtyID {
		sp, ok := s.ownSpecialty(u, req.SpecialtyID)
		if !ok {
			detail(c, http.StatusNotFound, "Specialty not found or does not belong to your SPO")
			return
		}
		if count := s.studentsIn(sp.ID); count >= sp.Quota {
			detail(c, http.StatusBadRequest, fmt.Sprintf("Quota exceeded. Current: %d, Quota: %d", count, sp.Quota))
			return
		}
	}

	if s.attestatTaken(req.AttestatNumber, st.ID) {
		detail(c, http.StatusBadRequest, "Student with this attestat number already exists")
		return
	}

	st.FullName = req.FullName
	st.AttestatNumber = req.AttestatNumber
	st.SpecialtyID = req.SpecialtyID
	c.JSON(http.StatusOK, st)
}

func (s *Server) deleteStudent(c *gin.Context) {
	u := currentUser(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.students[id]
	if !exists {
		detail(c, http.StatusNotFound, "Student not found or does not belong to your SPO")
		return
	}
	if _, ok := s.ownSpecialty(u, st.SpecialtyID); !ok {
		detail(c, http.StatusNotFound, "Student not found or does not belong to your SPO")
		return
	}
	delete(s.students, id)
	c.Status(http.StatusNoContent)
}

// stats reports every SPO to admins and only their own SPO to operators
func (s *Server) stats(c *gin.Context) {
	u := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	report := models.Stats{SpoList: []models.SpoStats{}}
	for _, spoID := range sortedKeys(s.spo) {
		if u.Role != models.RoleAdmin && (u.SpoID == nil || *u.SpoID != spoID) {
			continue
		}
		spo := s.spo[spoID]

		section := models.SpoStats{SpoID: spo.ID, SpoName: spo.Name, Specialties: []models.SpecialtyStats{}}
		for _, spID := range sortedKeys(s.specialties) {
			sp := s.specialties[spID]
			if sp.SpoID != spoID {
				continue
			}
			count := s.studentsIn(sp.ID)
			section.Specialties = append(section.Specialties, models.SpecialtyStats{
				SpecialtyID:    sp.ID,
				SpecialtyName:  sp.Name,
				SpecialtyCode:  sp.Code,
				SpoID:          spo.ID,
				SpoName:        spo.Name,
				Quota:          sp.Quota,
				StudentsCount:  count,
				AvailableSlots: max(0, sp.Quota-count),
			})
			section.TotalQuota += sp.Quota
			section.TotalStudents += count
		}

		report.TotalSpo++
		report.TotalSpecialties += len(section.Specialties)
		report.TotalStudents += section.TotalStudents
		report.TotalQuota += section.TotalQuota
		report.SpoList = append(report.SpoList, section)
	}

	c.JSON(http.StatusOK, report)
}
