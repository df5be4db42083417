package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/api/transport"
	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
	"github.com/fastygo/taskdesk/repository"
	taskUC "github.com/fastygo/taskdesk/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger, taskErrorShape),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := repository.TaskFilter{
		Status: domain.TaskStatus(strings.ToUpper(string(args.Peek("status")))),
		Source: domain.TaskSource(strings.ToUpper(string(args.Peek("source")))),
		Limit:  parseInt(string(args.Peek("limit")), 0),
		Offset: parseInt(string(args.Peek("offset")), 0),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.respondFailure(ctx, http.StatusBadRequest, domain.ErrCodeInvalid, "invalid status")
		return
	}
	if filter.Source != "" && !filter.Source.Valid() {
		h.respondFailure(ctx, http.StatusBadRequest, domain.ErrCodeInvalid, "invalid source")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Get task
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	task, err := req.Task()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, taskID(ctx), patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, taskID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Extract tasks from free text
// @Tags ai
// @Router /api/ai/extract-tasks [post]
func (h *TaskHandler) ExtractTasks(ctx *fasthttp.RequestCtx) {
	var req transport.ExtractRequest
	if err := decode(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		h.respondError(ctx, domain.ErrTextRequired)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ExtractTasks(stdCtx, *req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.ExtractResponse{Tasks: tasks})
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := decode(ctx, &req); err != nil {
		h.respondError(ctx, err)
		return req, false
	}
	if err := transport.Validate(req); err != nil {
		h.respondFailure(ctx, http.StatusBadRequest, domain.ErrCodeInvalid, "invalid task fields")
		return req, false
	}
	return req, true
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
