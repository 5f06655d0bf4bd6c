package fakeapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spoadmin/spoadmin/internal/assert"
	"github.com/spoadmin/spoadmin/internal/models"
)

// SPO

func (s *Server) spoWithStats(spo *models.Spo) models.SpoWithStats {
	out := models.SpoWithStats{Spo: *spo}
	for _, sp := range s.specialties {
		if sp.SpoID != spo.ID {
			continue
		}
		out.SpecialtiesCount++
		out.StudentsCount += s.studentsIn(sp.ID)
	}
	for _, u := range s.users {
		if u.Role == models.RoleOperator && u.SpoID != nil && *u.SpoID == spo.ID {
			out.OperatorsCount++
		}
	}
	return out
}

func (s *Server) listSpo(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.SpoWithStats, 0, len(s.spo))
	for _, id := range sortedKeys(s.spo) {
		list = append(list, s.spoWithStats(s.spo[id]))
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getSpo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	spo, exists := s.spo[id]
	if !exists {
		detail(c, http.StatusNotFound, "SPO not found")
		return
	}
	c.JSON(http.StatusOK, s.spoWithStats(spo))
}

func (s *Server) createSpo(c *gin.Context) {
	var req models.SpoInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	spo := &models.Spo{ID: s.allocID(), Name: req.Name, CreatedAt: s.now()}
	s.spo[spo.ID] = spo
	c.JSON(http.StatusCreated, spo)
}

func (s *Server) updateSpo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.SpoInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	spo, exists := s.spo[id]
	if !exists {
		detail(c, http.StatusNotFound, "SPO not found")
		return
	}
	spo.Name = req.Name
	c.JSON(http.StatusOK, spo)
}

func (s *Server) deleteSpo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.spo[id]; !exists {
		detail(c, http.StatusNotFound, "SPO not found")
		return
	}

	delete(s.spo, id)
	for spID, sp := range s.specialties {
		if sp.SpoID == id {
			s.deleteSpecialtyLocked(spID)
		}
	}
	for uID, u := range s.users {
		if u.SpoID != nil && *u.SpoID == id {
			delete(s.users, uID)
		}
	}
	c.Status(http.StatusNoContent)
}

// Operators

func toOperator(u *user) models.Operator {
	return models.Operator{ID: u.ID, Login: u.Login, Role: u.Role, SpoID: u.SpoID, CreatedAt: u.CreatedAt}
}

func (s *Server) listOperators(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	operators := []models.Operator{}
	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; u.Role == models.RoleOperator {
			operators = append(operators, toOperator(u))
		}
	}
	c.JSON(http.StatusOK, operators)
}

func (s *Server) createOperator(c *gin.Context) {
	var req models.OperatorInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.spo[req.SpoID]; !exists {
		detail(c, http.StatusNotFound, "SPO not found")
		return
	}

	password, err := generatePassword(operatorPasswordLength)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to generate password")
		return
	}
	hash, err := hashPassword(password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	spoID := req.SpoID
	u := &user{
		ID:           s.allocID(),
		Login:        s.uniqueLogin(fmt.Sprintf("spo%d_operator", spoID)),
		PasswordHash: hash,
		Role:         models.RoleOperator,
		SpoID:        &spoID,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u

	c.JSON(http.StatusCreated, models.OperatorWithPassword{Operator: toOperator(u), GeneratedPassword: password})
}

func (s *Server) deleteOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists || u.Role != models.RoleOperator {
		detail(c, http.StatusNotFound, "Operator not found")
		return
	}
	delete(s.users, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) resetOperatorPassword(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists || u.Role != models.RoleOperator {
		detail(c, http.StatusNotFound, "Operator not found")
		return
	}

	password, err := generatePassword(operatorPasswordLength)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to generate password")
		return
	}
	hash, err := hashPassword(password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	u.PasswordHash = hash

	c.JSON(http.StatusOK, models.OperatorWithPassword{Operator: toOperator(u), GeneratedPassword: password})
}

func (s *Server) uniqueLogin(base string) string {
	taken := func(login string) bool {
		for _, u := range s.users {
			if u.Login == login {
				return true
			}
		}
		return false
	}

	login := base
	for i := 1; taken(login); i++ {
		login = base + "_" + strconv.Itoa(i)
	}
	return login
}

const operatorPasswordLength = 12

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	password := string(out)
	assert.Length(password, length)
	return password, nil
}

// Settings

func (s *Server) getSettings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, models.Settings{BaseQuota: s.baseQuota})
}

func (s *Server) updateSettings(c *gin.Context) {
	var req models.Settings
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseQuota = req.BaseQuota
	c.JSON(http.StatusOK, models.Settings{BaseQuota: s.baseQuota})
}

// Specialty templates

func (s *Server) listTemplates(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := make([]models.SpecialtyTemplate, 0, len(s.templates))
	for _, id := range sortedKeys(s.templates) {
		tmpl := *s.templates[id]
		spos := make(map[int]struct{})
		for _, sp := range s.specialties {
			if sp.TemplateID != nil && *sp.TemplateID == id {
				spos[sp.SpoID] = struct{}{}
			}
		}
		tmpl.SpoCount = len(spos)
		templates = append(templates, tmpl)
	}
	c.JSON(http.StatusOK, templates)
}

func (s *Server) createTemplate(c *gin.Context) {
	var req models.SpecialtyTemplateInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.templates {
		if t.Code == req.Code {
			detail(c, http.StatusBadRequest, "Specialty template with this code already exists")
			return
		}
	}

	tmpl := &models.SpecialtyTemplate{ID: s.allocID(), Code: req.Code, Name: req.Name, CreatedAt: s.now()}
	s.templates[tmpl.ID] = tmpl
	c.JSON(http.StatusCreated, tmpl)
}

func (s *Server) updateTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.SpecialtyTemplateInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, exists := s.templates[id]
	if !exists {
		detail(c, http.StatusNotFound, "Specialty template not found")
		return
	}
	tmpl.Code = req.Code
	tmpl.Name = req.Name

	// assigned specialties carry a denormalized copy
	for _, sp := range s.specialties {
		if sp.TemplateID != nil && *sp.TemplateID == id {
			code := req.Code
			sp.Code = &code
			sp.Name = req.Name
		}
	}
	c.JSON(http.StatusOK, tmpl)
}

func (s *Server) deleteTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[id]; !exists {
		detail(c, http.StatusNotFound, "Specialty template not found")
		return
	}
	delete(s.templates, id)
	for spID, sp := range s.specialties {
		if sp.TemplateID != nil && *sp.TemplateID == id {
			s.deleteSpecialtyLocked(spID)
		}
	}
	c.Status(http.StatusNoContent)
}

// SPO specialties

func (s *Server) listAdminSpecialties(c *gin.Context) {
	var spoFilter *int
	if raw := c.Query("spo_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			detail(c, http.StatusUnprocessableEntity, "spo_id must be an integer")
			return
		}
		spoFilter = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	specialties := []models.Specialty{}
	for _, id := range sortedKeys(s.specialties) {
		sp := s.specialties[id]
		if spoFilter != nil && sp.SpoID != *spoFilter {
			continue
		}
		specialties = append(specialties, s.specialtyWithStats(sp))
	}
	c.JSON(http.StatusOK, specialties)
}

func (s *Server) createAdminSpecialty(c *gin.Context) {
	var req models.SpecialtyInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.spo[req.SpoID]; !exists {
		detail(c, http.StatusNotFound, "SPO not found")
		return
	}
	tmpl, exists := s.templates[req.TemplateID]
	if !exists {
		detail(c, http.StatusNotFound, "Specialty template not found")
		return
	}
	for _, sp := range s.specialties {
		if sp.SpoID == req.SpoID && sp.TemplateID != nil && *sp.TemplateID == req.TemplateID {
			detail(c, http.StatusBadRequest, "This specialty is already assigned to the SPO")
			return
		}
	}

	templateID, code := tmpl.ID, tmpl.Code
	sp := &models.Specialty{
		ID:         s.allocID(),
		SpoID:      req.SpoID,
		TemplateID: &templateID,
		Code:       &code,
		Name:       tmpl.Name,
		Quota:      s.baseQuota,
		CreatedAt:  s.now(),
	}
	s.specialties[sp.ID] = sp
	c.JSON(http.StatusCreated, sp)
}

func (s *Server) deleteAdminSpecialty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.specialties[id]; !exists {
		detail(c, http.StatusNotFound, "Specialty not found")
		return
	}
	s.deleteSpecialtyLocked(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) updateQuota(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.QuotaInput
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sp, exists := s.specialties[id]
	if !exists {
		detail(c, http.StatusNotFound, "Specialty not found")
		return
	}
	sp.Quota = req.Quota
	c.JSON(http.StatusOK, sp)
}

// deleteSpecialtyLocked removes a specialty and its students; s.mu must be held
func (s *Server) deleteSpecialtyLocked(id int) {
	delete(s.specialties, id)
	for stID, st := range s.students {
		if st.SpecialtyID == id {
			delete(s.students, stID)
		}
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
