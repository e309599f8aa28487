package handler

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hqlaw/legaldoc_go_server/internal/pkg/response"
	"github.com/hqlaw/legaldoc_go_server/internal/service"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	analysisService *service.AnalysisService
}

func NewDocumentHandler(
	documentService *service.DocumentService,
	analysisService *service.AnalysisService,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		analysisService: analysisService,
	}
}

// Upload 上传文档
// POST /api/v1/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "缺少 file 字段")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	resp, err := h.documentService.Upload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			response.ParamError(c, err.Error())
		default:
			log.Printf("Upload failed: %v", err)
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "上传成功", resp)
}

// List 文档列表
// GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.documentService.List(page, pageSize, status)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 文档详情
// GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文档ID")
		return
	}

	detail, err := h.documentService.Get(documentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, detail)
}

// Analyze 同步执行分析流水线
// POST /api/v1/documents/:id/analyze
//
// 损坏文档返回 success=false 的正常信封，不算接口错误。
func (h *DocumentHandler) Analyze(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文档ID")
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			response.NotFoundError(c, err.Error())
		default:
			log.Printf("Document %d: analyze failed: %v", documentID, err)
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// GetSummary 获取最新摘要
// GET /api/v1/documents/:id/summary
func (h *DocumentHandler) GetSummary(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文档ID")
		return
	}

	summary, err := h.documentService.GetSummary(documentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound),
			errors.Is(err, service.ErrSummaryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, summary)
}

// GetRisks 获取风险标记
// GET /api/v1/documents/:id/risks
func (h *DocumentHandler) GetRisks(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文档ID")
		return
	}

	flags, err := h.documentService.GetRiskFlags(documentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, flags)
}

// GetQuestions 获取跟进问题
// GET /api/v1/documents/:id/questions
func (h *DocumentHandler) GetQuestions(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文档ID")
		return
	}

	questions, err := h.documentService.GetQuestions(documentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, questions)
}

// GetJobStatus 获取最新分析任务状态
// GET /api/v1/documents/:id/job-status
func (h *DocumentHandler) GetJobStatus(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文档ID")
		return
	}

	status, err := h.documentService.GetJobStatus(documentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}
