package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/mapper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/policy"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	filter, err := validation.ParseTaskFilter(c.Request.URL.Query())
	if err != nil {
		writeError(c, err, apierrors.MsgInvalidTaskFilter)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

// ListPublicTasks serves the unauthenticated v2 listing. Query parameters
// are ignored.
func (h *TaskHandler) ListPublicTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	tasks, err := h.taskService.ListTasks(c.Request.Context(), domain.TaskFilter{})
	if err != nil {
		zap.L().Error("failed to list public tasks", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := h.loadTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.Authorize(actor, policy.ActionCreate, nil); err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	var req dto.CreateTaskRequest
	raw, err := h.decode(c, &req, apierrors.MsgInvalidTaskPayload)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, input)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask, zap.Uint64("user_id", actor.ID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	h.update(c, policy.ActionUpdate)
}

func (h *TaskHandler) PartialUpdateTask(c *gin.Context) {
	h.update(c, policy.ActionPartialUpdate)
}

func (h *TaskHandler) update(c *gin.Context, action policy.Action) {
	actor, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if err := h.taskService.Authorize(actor, action, &task); err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	var req dto.UpdateTaskRequest
	raw, err := h.decode(c, &req, apierrors.MsgInvalidTaskPayload)
	if err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw, action == policy.ActionPartialUpdate)
	if err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), actor, task, action, input)
	if err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask, zap.Uint64("task_id", task.ID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(updated))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, task); err != nil {
		writeError(c, err, apierrors.MsgFailDeleteTask, zap.Uint64("task_id", task.ID))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if _, err := h.decode(c, &req, apierrors.MsgInvalidCommentPayload); err != nil {
		writeError(c, domain.NewFieldError("comment", apierrors.MsgInvalidCommentPayload, err), apierrors.MsgFailCreateComment)
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), actor, task.ID, req.Comment)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateComment, zap.Uint64("task_id", task.ID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToCommentItem(comment))
}

// loadTask answers 400 or 404 itself and reports whether the handler may go on.
func (h *TaskHandler) loadTask(c *gin.Context) (domain.Task, bool) {
	taskID, ok := parseID(c)
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, middleware.GetLang(c)),
		)
		return domain.Task{}, false
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err, apierrors.MsgFailGetTask, zap.Uint64("task_id", taskID))
		return domain.Task{}, false
	}
	return task, true
}

func (h *TaskHandler) decode(c *gin.Context, req any, messageKey string) (map[string]json.RawMessage, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, domain.NewRecordError(messageKey, err)
	}
	return validation.DecodeJSONObject(body, req, messageKey)
}
