package fakeapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/Jupiter-12/kanban/domain"
)

func (s *Server) listComments(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedTask(c, taskID); err != nil {
		return err
	}
	out := []domain.Comment{}
	for _, comment := range s.comments {
		if comment.TaskID == taskID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createComment(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.CommentCreate
	if err := c.Bind(&req); err != nil || req.Content == "" {
		return validationError("content", "field required")
	}
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedTask(c, taskID); err != nil {
		return err
	}
	comment := &domain.Comment{
		ID:        s.id(),
		TaskID:    taskID,
		UserID:    user.ID,
		Content:   req.Content,
		CreatedAt: s.tick(),
		User:      domain.CommentAuthor{ID: user.ID, Username: user.Username, DisplayName: user.DisplayName},
	}
	s.comments[comment.ID] = comment
	return c.JSON(http.StatusCreated, *comment)
}

func (s *Server) deleteComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return detailError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != currentUser(c).ID {
		return detailError(http.StatusForbidden, "Not enough permissions")
	}
	delete(s.comments, id)
	return c.NoContent(http.StatusNoContent)
}
