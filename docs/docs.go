// Package docs holds the swagger document served under /swagger. Regenerate with swag init.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/health": {
			"get": {
				"summary": "健康检查",
				"tags": [
					"系统"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/student/classrooms/{code}/assessments": {
			"get": {
				"summary": "学生端：课堂测评列表",
				"tags": [
					"课堂测评"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/student/classrooms/{code}/assessments/{id}": {
			"get": {
				"summary": "学生端：获取测评（不含正确答案）",
				"tags": [
					"课堂测评"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/student/classrooms/{code}/assessments/{id}/sections/{sectionId}/status": {
			"get": {
				"summary": "学生端：分节状态与服务器时间",
				"tags": [
					"课堂测评"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "sectionId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/student/classrooms/{code}/assessments/{id}/results": {
			"get": {
				"summary": "学生端：我的测评结果",
				"tags": [
					"课堂测评"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/student/classrooms/{code}/submissions": {
			"post": {
				"summary": "学生端：提交分节答案",
				"tags": [
					"课堂测评"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.SubmitAnswersRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/student/classrooms/{code}/signaling": {
			"get": {
				"summary": "视频课堂信令配置",
				"tags": [
					"视频课堂"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/teacher/classrooms/{code}/assessments": {
			"get": {
				"summary": "教师端：课堂测评列表",
				"tags": [
					"课堂测评-教师"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			},
			"post": {
				"summary": "教师端：创建测评",
				"tags": [
					"课堂测评-教师"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.CreateAssessmentRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/teacher/classrooms/{code}/assessments/{id}": {
			"get": {
				"summary": "教师端：测评详情（含正确答案）",
				"tags": [
					"课堂测评-教师"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/teacher/classrooms/{code}/assessments/{id}/sections/{sectionId}/window": {
			"put": {
				"summary": "教师端：调整分节时间窗口",
				"tags": [
					"课堂测评-教师"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "sectionId",
						"in": "path",
						"required": true
					},
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.RescheduleRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/teacher/classrooms/{code}/assessments/{id}/sections/{sectionId}/submissions": {
			"get": {
				"summary": "教师端：分节提交列表",
				"tags": [
					"课堂测评-教师"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "sectionId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/teacher/classrooms/{code}/answers/{answerId}/grade": {
			"patch": {
				"summary": "教师端：简答题评分",
				"tags": [
					"课堂测评-教师"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "answerId",
						"in": "path",
						"required": true
					},
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.GradeAnswerRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/teacher/classrooms/{code}/signaling": {
			"get": {
				"summary": "视频课堂信令配置",
				"tags": [
					"视频课堂"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/admin/timetable": {
			"get": {
				"summary": "获取课表",
				"tags": [
					"课表管理"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			},
			"put": {
				"summary": "发布课表（整体替换）",
				"tags": [
					"课表管理"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.SaveTimetableRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/admin/notifications": {
			"get": {
				"summary": "通知列表",
				"tags": [
					"课表管理"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "数量，默认20，最大100",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/admin/classrooms": {
			"post": {
				"summary": "创建课堂",
				"tags": [
					"课堂管理"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.CreateClassroomRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/admin/classrooms/{code}/students": {
			"post": {
				"summary": "课堂选课",
				"tags": [
					"课堂管理"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"description": "请求体",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.EnrollRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/api/admin/classrooms/{code}/logo": {
			"post": {
				"summary": "上传课堂Logo",
				"tags": [
					"课堂管理"
				],
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "string",
						"description": "课堂编号 CLS-YYYYMMDD-XXXX",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"type": "file",
						"description": "图片，不超过2MB",
						"name": "file",
						"in": "formData",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"util.Response": {
			"type": "object",
			"properties": {
				"code": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"kind": {
					"type": "string"
				},
				"data": {}
			}
		},
		"service.AnswerInput": {
			"type": "object",
			"properties": {
				"question_id": {
					"type": "integer"
				},
				"selected_option_id": {
					"type": "integer"
				},
				"answer_text": {
					"type": "string"
				}
			}
		},
		"service.SubmitAnswersRequest": {
			"type": "object",
			"properties": {
				"assessment_id": {
					"type": "integer"
				},
				"section_id": {
					"type": "integer"
				},
				"auto_submitted": {
					"type": "boolean"
				},
				"answers": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.AnswerInput"
					}
				}
			}
		},
		"service.OptionRequest": {
			"type": "object",
			"required": [
				"option_text"
			],
			"properties": {
				"option_text": {
					"type": "string"
				},
				"is_correct": {
					"type": "boolean"
				}
			}
		},
		"service.QuestionRequest": {
			"type": "object",
			"required": [
				"question_text",
				"q_type"
			],
			"properties": {
				"question_text": {
					"type": "string"
				},
				"q_type": {
					"type": "string",
					"enum": [
						"mcq",
						"text"
					]
				},
				"marks": {
					"type": "integer"
				},
				"options": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.OptionRequest"
					}
				}
			}
		},
		"service.SectionRequest": {
			"type": "object",
			"required": [
				"title",
				"start_at",
				"end_at"
			],
			"properties": {
				"title": {
					"type": "string"
				},
				"start_at": {
					"type": "string"
				},
				"end_at": {
					"type": "string"
				},
				"questions": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.QuestionRequest"
					}
				}
			}
		},
		"service.CreateAssessmentRequest": {
			"type": "object",
			"required": [
				"title",
				"sections"
			],
			"properties": {
				"title": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"total_marks": {
					"type": "integer"
				},
				"sections": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.SectionRequest"
					}
				}
			}
		},
		"service.RescheduleRequest": {
			"type": "object",
			"required": [
				"start_at",
				"end_at"
			],
			"properties": {
				"start_at": {
					"type": "string"
				},
				"end_at": {
					"type": "string"
				}
			}
		},
		"service.GradeAnswerRequest": {
			"type": "object",
			"required": [
				"marks"
			],
			"properties": {
				"marks": {
					"type": "integer"
				}
			}
		},
		"service.TimetableEntryInput": {
			"type": "object",
			"required": [
				"classroom_id",
				"day",
				"time_slot"
			],
			"properties": {
				"classroom_id": {
					"type": "integer"
				},
				"day": {
					"type": "string"
				},
				"time_slot": {
					"type": "string"
				},
				"module_name": {
					"type": "string"
				},
				"teacher_id": {
					"type": "integer"
				}
			}
		},
		"service.SaveTimetableRequest": {
			"type": "object",
			"properties": {
				"entries": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.TimetableEntryInput"
					}
				}
			}
		},
		"service.CreateClassroomRequest": {
			"type": "object",
			"required": [
				"name"
			],
			"properties": {
				"name": {
					"type": "string"
				},
				"teacher_id": {
					"type": "integer"
				},
				"days": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"start_time": {
					"type": "string"
				},
				"end_time": {
					"type": "string"
				}
			}
		},
		"service.EnrollRequest": {
			"type": "object",
			"required": [
				"student_ids"
			],
			"properties": {
				"student_ids": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Classroom Portal API",
	Description:      "课堂门户后端：课堂门禁、课表与限时课堂测评。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
