package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 세션 (SESSION_) ====================
	SessionRequired     = "SESSION_REQUIRED"      // 세션 토큰 없음
	SessionTokenInvalid = "SESSION_TOKEN_INVALID" // 잘못된 토큰
	SessionTokenExpired = "SESSION_TOKEN_EXPIRED" // 토큰 만료
	SessionTokenRevoked = "SESSION_TOKEN_REVOKED" // 종료된 세션

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 메뉴 (CATALOG_) ====================
	CatalogProductNotFound    = "CATALOG_PRODUCT_NOT_FOUND"   // 상품 없음
	CatalogProductUnavailable = "CATALOG_PRODUCT_UNAVAILABLE" // 판매 중지 상품
	CatalogStoreNotFound      = "CATALOG_STORE_NOT_FOUND"     // 매장 없음
	CatalogStoreClosed        = "CATALOG_STORE_CLOSED"        // 영업 종료

	// ==================== 옵션 선택 (SELECTION_) ====================
	SelectionNotFound          = "SELECTION_NOT_FOUND"          // 선택 세션 없음
	SelectionClosed            = "SELECTION_CLOSED"             // 이미 종료된 선택
	SelectionIncomplete        = "SELECTION_INCOMPLETE"         // 필수 옵션 미선택
	SelectionUnknownVariation  = "SELECTION_UNKNOWN_VARIATION"  // 없는 사이즈
	SelectionUnknownOption     = "SELECTION_UNKNOWN_OPTION"     // 없는 옵션
	SelectionOptionUnavailable = "SELECTION_OPTION_UNAVAILABLE" // 품절 옵션
	SelectionWrongGroupMode    = "SELECTION_WRONG_GROUP_MODE"   // 단일/다중 선택 불일치
	SelectionUnknownAction     = "SELECTION_UNKNOWN_ACTION"     // 알 수 없는 동작

	// ==================== 장바구니 (CART_) ====================
	CartInvalidQuantity = "CART_INVALID_QUANTITY" // 잘못된 수량
	CartSaveFailed      = "CART_SAVE_FAILED"      // 저장 실패

	// ==================== 주문 (CHECKOUT_) ====================
	CheckoutEmptyCart        = "CHECKOUT_EMPTY_CART"        // 빈 장바구니
	CheckoutInvalidMode      = "CHECKOUT_INVALID_MODE"      // 잘못된 주문 유형
	CheckoutNameRequired     = "CHECKOUT_NAME_REQUIRED"     // 이름 누락
	CheckoutPhoneRequired    = "CHECKOUT_PHONE_REQUIRED"    // 연락처 누락
	CheckoutAddressRequired  = "CHECKOUT_ADDRESS_REQUIRED"  // 배달 주소 누락
	CheckoutInProgress       = "CHECKOUT_IN_PROGRESS"       // 중복 주문 요청
	CheckoutSubmissionFailed = "CHECKOUT_SUBMISSION_FAILED" // 주문 생성 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
