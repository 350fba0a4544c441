// Package docs 注册 swagger 文档，路由与注解保持一致（可用 swag init 重新生成）
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API支持"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/ai/generate-course": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "根据学习资料生成课程",
                "parameters": [
                    {"description": "学习资料", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.GenerateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/ai/generate-level": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "生成或读取关卡内容",
                "parameters": [
                    {"description": "关卡信息", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.LevelContentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controller.LevelContentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/ai/providers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "模型提供方状态",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/courses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["课程"],
                "summary": "课程列表或课程详情",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "id", "in": "query"},
                    {"type": "string", "default": "user-1", "description": "用户ID", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["学习进度"],
                "summary": "获取课程内已完成的关卡",
                "parameters": [
                    {"type": "string", "default": "user-1", "description": "用户ID", "name": "userId", "in": "query"},
                    {"type": "string", "description": "课程ID", "name": "courseId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习进度"],
                "summary": "更新关卡进度",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/study": {
            "get": {
                "produces": ["application/json"],
                "tags": ["学习记录"],
                "summary": "学习统计",
                "parameters": [
                    {"type": "string", "default": "user-1", "description": "用户ID", "name": "userId", "in": "query"},
                    {"type": "string", "description": "today", "name": "type", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习记录"],
                "summary": "记录一次学习",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["用户"],
                "summary": "获取学习者信息",
                "parameters": [
                    {"type": "string", "default": "user-1", "description": "用户ID", "name": "userId", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["用户"],
                "summary": "AI 答题提示 / 概念解释",
                "parameters": [
                    {"type": "string", "description": "hint 或 explain", "name": "action", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/answers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["反馈"],
                "summary": "作答记录",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["反馈"],
                "summary": "记录作答",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/feedback": {
            "get": {
                "produces": ["application/json"],
                "tags": ["反馈"],
                "summary": "难度反馈记录",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["反馈"],
                "summary": "记录难度反馈",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "service.GenerateCourseRequest": {
            "type": "object",
            "properties": {
                "material": {"type": "string"},
                "title": {"type": "string"},
                "difficulty": {"type": "string"}
            }
        },
        "service.LevelContentRequest": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "levelId": {"type": "string"},
                "levelTitle": {"type": "string"},
                "levelDescription": {"type": "string"},
                "chapterTitle": {"type": "string"},
                "material": {"type": "string"},
                "difficulty": {"type": "string"},
                "generateNext": {"type": "boolean"},
                "userId": {"type": "string"}
            }
        },
        "controller.LevelContentResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "cached": {"type": "boolean"}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "util.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"},
                "stack": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "OpenLearner 后端 API",
	Description:      "游戏化学习平台：由学习资料生成课程、按关卡生成内容、记录进度与连续学习天数。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
